package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/mutate"
	"stockroom-cli/internal/specs"
	"stockroom-cli/internal/store"
)

// specShape selects the specifications wire shape for responses.
// The ordered array is canonical; the object map is the legacy contract and
// flattens duplicates last-write-wins.
type specShape string

const (
	shapeArray specShape = "array"
	shapeMap   specShape = "map"
)

func shapeFromRequest(r *http.Request) (specShape, error) {
	switch strings.TrimSpace(r.URL.Query().Get("shape")) {
	case "", "array":
		return shapeArray, nil
	case "map":
		return shapeMap, nil
	default:
		return "", errors.New("shape must be array or map")
	}
}

type itemAttributes struct {
	Specifications any `json:"specifications"`
}

type itemView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	CategoryID   string         `json:"categoryId,omitempty"`
	LocationID   string         `json:"locationId,omitempty"`
	LocationPath string         `json:"locationPath,omitempty"`
	Quantity     int            `json:"quantity"`
	Tags         []string       `json:"tags,omitempty"`
	Archived     bool           `json:"archived"`
	Attributes   itemAttributes `json:"attributes"`
	CreatedBy    string         `json:"createdBy,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func viewItem(db *store.DB, it model.Item, shape specShape) itemView {
	var sp any
	if shape == shapeMap {
		sp = specs.EntriesToMap(it.Specs)
	} else {
		entries := it.Specs
		if entries == nil {
			entries = []model.SpecEntry{}
		}
		sp = entries
	}
	return itemView{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		CategoryID:   it.CategoryID,
		LocationID:   it.LocationID,
		LocationPath: db.LocationPath(it.LocationID),
		Quantity:     it.Quantity,
		Tags:         it.Tags,
		Archived:     it.Archived,
		Attributes:   itemAttributes{Specifications: sp},
		CreatedBy:    it.CreatedBy,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

// itemWriteRequest is the shared body for POST and PUT. Pointer fields
// distinguish "absent" from "set to zero value": absent fields pass through
// unchanged on update. Specifications are accepted in either wire shape,
// under attributes.specifications (the API contract) or top-level specs.
type itemWriteRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	CategoryID  *string   `json:"categoryId"`
	LocationID  *string   `json:"locationId"`
	Quantity    *int      `json:"quantity"`
	Tags        *[]string `json:"tags"`

	Specs      json.RawMessage `json:"specs"`
	Attributes *struct {
		Specifications json.RawMessage `json:"specifications"`
	} `json:"attributes"`
}

func (req itemWriteRequest) specsRaw() (json.RawMessage, bool) {
	if req.Attributes != nil && len(req.Attributes.Specifications) > 0 {
		return req.Attributes.Specifications, true
	}
	if len(req.Specs) > 0 {
		return req.Specs, true
	}
	return nil, false
}

func (s *Server) handleItemsList(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	shape, err := shapeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	f := store.ItemFilter{
		CategoryID: strings.TrimSpace(q.Get("category")),
		LocationID: strings.TrimSpace(q.Get("location")),
	}
	switch strings.TrimSpace(q.Get("archived")) {
	case "":
		archived := false
		f.Archived = &archived
	case "true":
		archived := true
		f.Archived = &archived
	case "all":
		// no filter
	case "false":
		archived := false
		f.Archived = &archived
	default:
		writeErrorf(w, http.StatusBadRequest, "archived must be true, false, or all")
		return
	}

	items := db.FilterItems(f)
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, viewItem(db, it, shape))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": views})
}

func (s *Server) handleItemCreate(w http.ResponseWriter, r *http.Request) {
	if s.readOnly() {
		writeErrorf(w, http.StatusForbidden, "workspace is read-only")
		return
	}
	db, st, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	shape, err := shapeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req itemWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorf(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, mutate.ErrEmptyName)
		return
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, mutate.ErrNegativeQuantity)
		return
	}

	userID := s.requestUserID(r, db)
	now := time.Now().UTC()
	it := model.Item{
		ID:        st.NextID(db, "item"),
		Name:      strings.TrimSpace(*req.Name),
		Quantity:  1,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.Quantity != nil {
		it.Quantity = *req.Quantity
	}
	if req.Tags != nil {
		it.Tags = *req.Tags
	}
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		id := strings.TrimSpace(*req.CategoryID)
		if _, ok := db.FindCategory(id); !ok {
			writeError(w, http.StatusBadRequest, mutate.NotFoundError{Kind: "category", ID: id})
			return
		}
		it.CategoryID = id
	}
	if req.LocationID != nil && strings.TrimSpace(*req.LocationID) != "" {
		id := strings.TrimSpace(*req.LocationID)
		if _, ok := db.FindLocation(id); !ok {
			writeError(w, http.StatusBadRequest, mutate.NotFoundError{Kind: "location", ID: id})
			return
		}
		it.LocationID = id
	}
	if raw, ok := req.specsRaw(); ok {
		entries, err := specs.ParseWire(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		it.Specs = specs.FromEntries(entries).Entries()
	}

	db.Items = append(db.Items, it)
	if err := st.Save(db); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	_ = st.AppendEvent(userID, "item.create", it.ID, it)

	writeJSON(w, http.StatusCreated, map[string]any{"data": viewItem(db, it, shape)})
}

func (s *Server) handleItemGet(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	shape, err := shapeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("itemId")
	it, ok := db.FindItem(id)
	if !ok {
		writeError(w, http.StatusNotFound, mutate.NotFoundError{Kind: "item", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": viewItem(db, *it, shape)})
}

func (s *Server) handleItemPut(w http.ResponseWriter, r *http.Request) {
	if s.readOnly() {
		writeErrorf(w, http.StatusForbidden, "workspace is read-only")
		return
	}
	db, st, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	shape, err := shapeFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("itemId")
	it, ok := db.FindItem(id)
	if !ok {
		writeError(w, http.StatusNotFound, mutate.NotFoundError{Kind: "item", ID: id})
		return
	}

	var req itemWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorf(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}

	userID := s.requestUserID(r, db)
	type pendingEvent struct {
		typ     string
		payload map[string]any
	}
	var events []pendingEvent

	if req.Name != nil {
		res, err := mutate.RenameItem(db, userID, id, *req.Name)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if res.Changed {
			events = append(events, pendingEvent{"item.rename", res.EventPayload})
		}
	}
	if req.Quantity != nil {
		res, err := mutate.SetQuantity(db, userID, id, *req.Quantity)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if res.Changed {
			events = append(events, pendingEvent{"item.set_quantity", res.EventPayload})
		}
	}
	if req.CategoryID != nil {
		res, err := mutate.SetCategory(db, userID, id, *req.CategoryID)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if res.Changed {
			events = append(events, pendingEvent{"item.set_category", res.EventPayload})
		}
	}
	if req.LocationID != nil {
		res, err := mutate.MoveItem(db, userID, id, *req.LocationID)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if res.Changed {
			events = append(events, pendingEvent{"item.move", res.EventPayload})
		}
	}
	if req.Description != nil && it.Description != *req.Description {
		it.Description = *req.Description
		it.UpdatedAt = time.Now().UTC()
		events = append(events, pendingEvent{"item.set_description", nil})
	}
	if req.Tags != nil {
		it.Tags = *req.Tags
		it.UpdatedAt = time.Now().UTC()
		events = append(events, pendingEvent{"item.set_tags", map[string]any{"tags": *req.Tags}})
	}
	if raw, ok := req.specsRaw(); ok {
		list, err := specs.FromWire(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res, err := mutate.ApplySpecs(db, userID, id, list)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if res.Changed {
			events = append(events, pendingEvent{"item.set_specs", res.EventPayload})
		}
	}

	if len(events) > 0 {
		if err := st.Save(db); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		for _, ev := range events {
			_ = st.AppendEvent(userID, ev.typ, id, ev.payload)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": viewItem(db, *it, shape)})
}

func (s *Server) handleItemArchive(w http.ResponseWriter, r *http.Request) {
	if s.readOnly() {
		writeErrorf(w, http.StatusForbidden, "workspace is read-only")
		return
	}
	db, st, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	id := r.PathValue("itemId")
	userID := s.requestUserID(r, db)
	res, err := mutate.SetItemArchived(db, userID, id, true)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	if res.Changed {
		if err := st.Save(db); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		_ = st.AppendEvent(userID, "item.archive", id, res.EventPayload)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": viewItem(db, *res.Item, shapeArray)})
}

func (s *Server) handleItemEvents(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	id := r.PathValue("itemId")
	if _, ok := db.FindItem(id); !ok {
		writeError(w, http.StatusNotFound, mutate.NotFoundError{Kind: "item", ID: id})
		return
	}
	evs, err := store.ReadEventsForEntity(s.dir(), id, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": evs})
}
