package mockbackend

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/mobilearn/appcore/internal/model"
)

// handleListFavourites returns the favorite-course set. The mock serves
// the same set for every channelId; per-channel scoping is server-side
// data the mock does not model.
//
// GET /courses/v1/favourites?channelId= → 200 {courseIds}
func (s *Server) handleListFavourites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.favourites))
	for id := range s.favourites {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)

	writeJSON(w, http.StatusOK, map[string][]string{"courseIds": ids})
}

// handleAddFavourite marks a course as favorite. Adding a course that is
// already favorite is a no-op, keeping the endpoint idempotent.
//
// POST /courses/v1/favourites/{courseID} → 200
func (s *Server) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		writeMessage(w, http.StatusBadRequest, "course id is required")
		return
	}

	s.mu.Lock()
	s.favourites[courseID] = struct{}{}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, nil)
}

// handleRemoveFavourite is the idempotent removal counterpart.
//
// DELETE /courses/v1/favourites/{courseID} → 200
func (s *Server) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		writeMessage(w, http.StatusBadRequest, "course id is required")
		return
	}

	s.mu.Lock()
	delete(s.favourites, courseID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, nil)
}

// handleChatDetails returns seeded chat metadata for a (role, chat) pair.
//
// GET /chats/v1/{role}/{chatID} → 200 ChatDetail
func (s *Server) handleChatDetails(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unknown role")
		return
	}
	chatID := chi.URLParam(r, "chatID")

	s.mu.Lock()
	detail, ok := s.chats[chatKey{role: role, chatID: chatID}]
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "chat not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
