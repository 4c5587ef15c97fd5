package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/mutate"
)

func (s *Server) handleCategoriesList(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": db.Categories})
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	if s.readOnly() {
		writeErrorf(w, http.StatusForbidden, "workspace is read-only")
		return
	}
	db, st, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorf(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, mutate.ErrEmptyName)
		return
	}

	userID := s.requestUserID(r, db)
	c := model.Category{
		ID:        st.NextID(db, "cat"),
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	db.Categories = append(db.Categories, c)
	if err := st.Save(db); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	_ = st.AppendEvent(userID, "category.create", c.ID, c)
	writeJSON(w, http.StatusCreated, map[string]any{"data": c})
}

func (s *Server) handleLocationsList(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	type locationView struct {
		model.Location
		Path string `json:"path"`
	}
	views := make([]locationView, 0, len(db.Locations))
	for _, l := range db.Locations {
		views = append(views, locationView{Location: l, Path: db.LocationPath(l.ID)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": views})
}

func (s *Server) handleLocationCreate(w http.ResponseWriter, r *http.Request) {
	if s.readOnly() {
		writeErrorf(w, http.StatusForbidden, "workspace is read-only")
		return
	}
	db, st, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var req struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorf(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, mutate.ErrEmptyName)
		return
	}
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" {
		pid := strings.TrimSpace(*req.ParentID)
		if _, ok := db.FindLocation(pid); !ok {
			writeError(w, http.StatusBadRequest, mutate.NotFoundError{Kind: "location", ID: pid})
			return
		}
		req.ParentID = &pid
	} else {
		req.ParentID = nil
	}

	userID := s.requestUserID(r, db)
	l := model.Location{
		ID:        st.NextID(db, "loc"),
		Name:      strings.TrimSpace(req.Name),
		ParentID:  req.ParentID,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	db.Locations = append(db.Locations, l)
	if err := st.Save(db); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	_ = st.AppendEvent(userID, "location.create", l.ID, l)
	writeJSON(w, http.StatusCreated, map[string]any{"data": l})
}
