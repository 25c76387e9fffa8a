// Command mockbackend serves the in-process platform API mock over HTTP
// for local development of the client core.
//
// Configuration comes from the environment:
//
//	PORT                listen port (default 8080)
//	MOCKBACKEND_SECRET  token signing secret (dev default if unset)
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/mobilearn/appcore/internal/mockbackend"
	"github.com/mobilearn/appcore/internal/model"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	secret := os.Getenv("MOCKBACKEND_SECRET")
	if secret == "" {
		secret = "mockbackend-dev-secret-16chars"
		logger.Warn("MOCKBACKEND_SECRET not set, using the development default")
	}

	srv, err := mockbackend.New(logger, secret)
	if err != nil {
		logger.Error("failed to create mock backend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Fixture data so the CLI has something to log in to and fetch.
	if err := srv.SeedAccount("demo-member", "member@mobilearn.app", "password", model.RoleMember); err != nil {
		logger.Error("seeding account", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := srv.SeedAccount("demo-instructor", "instructor@mobilearn.app", "password", model.RoleInstructor); err != nil {
		logger.Error("seeding account", slog.String("error", err.Error()))
		os.Exit(1)
	}
	srv.SeedFavourites("go-basics", "distributed-systems")
	srv.SeedChat(model.RoleMember, "42", model.ChatDetail{
		ChatName:       "Go study group",
		ChatPictureURL: "https://cdn.mobilearn.app/chats/42.png",
		Participants: []model.Participant{
			{ID: "p1", Name: "demo-member"},
			{ID: "p2", Name: "demo-instructor"},
		},
	})

	resetToken := srv.GenerateResetToken()
	logger.Info("mock backend ready",
		slog.Int("port", port),
		slog.String("reset_token", resetToken),
		slog.String("deep_link", fmt.Sprintf("mobilearn://reset-password?token=%s", resetToken)),
	)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), srv); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
