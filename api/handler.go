package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi"
	customerror "github.com/ukane-philemon/grades/internal/errors"
	"github.com/ukane-philemon/grades/internal/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidObjectIDMessage = "Please send a valid ObjectId"

// Handler serves the grades resource.
type Handler struct {
	db         GradeDatabase
	JWTManager *jwt.Manager
}

// NewHandler creates and returns a new instance of *Handler. Write routes
// require a token issued by jwtManager unless jwtManager is nil.
func NewHandler(db GradeDatabase, jwtManager *jwt.Manager) *Handler {
	return &Handler{
		db:         db,
		JWTManager: jwtManager,
	}
}

// handlerFunc is an http.HandlerFunc that hands the errors it does not
// respond to itself to the terminal error responder.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (fn handlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		logServerError(r, err)
		serverError(w)
	}
}

func (h *Handler) createGrade(w http.ResponseWriter, r *http.Request) error {
	newGrade := normalizeLegacyFields(requestBody(r))

	res, err := h.db.CreateGrade(r.Context(), newGrade)
	if err != nil {
		respondError(w, err)
		return nil
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		w.Header().Set("Location", path.Join(r.URL.Path, id.Hex()))
	}
	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) grade(w http.ResponseWriter, r *http.Request) error {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidObjectIDMessage})
	}

	grade, err := h.db.Grade(r.Context(), id)
	if err != nil {
		return err
	}

	if grade == nil {
		writeText(w, http.StatusBadRequest, "Not Found")
		return nil
	}

	return writeJSON(w, http.StatusOK, grade)
}

func (h *Handler) addScore(w http.ResponseWriter, r *http.Request) error {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return nil
	}

	res, err := h.db.AddScore(r.Context(), id, requestBody(r))
	if err == nil && res == nil {
		err = customerror.NotFound()
	}
	if err != nil {
		respondError(w, err)
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) removeScore(w http.ResponseWriter, r *http.Request) error {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return nil
	}

	res, err := h.db.RemoveScore(r.Context(), id, requestBody(r))
	if err == nil && res == nil {
		err = customerror.NotFound()
	}
	if err != nil {
		respondError(w, err)
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) deleteGrade(w http.ResponseWriter, r *http.Request) error {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	res, err := h.db.DeleteGrade(r.Context(), id)
	if err != nil {
		return err
	}

	// The store always acknowledges a delete, even one that matched nothing.
	if res == nil {
		writeText(w, http.StatusNotFound, "Not found")
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) learnerGrades(w http.ResponseWriter, r *http.Request) error {
	learnerID := toNumber(chi.URLParam(r, "id"))

	grades, err := h.db.LearnerGrades(r.Context(), learnerID, queryNumber(r, "class"))
	if err != nil {
		respondError(w, err)
		return nil
	}

	if len(grades) == 0 {
		writeText(w, http.StatusBadRequest, "Not Found")
		return nil
	}

	return writeJSON(w, http.StatusOK, grades)
}

// studentGrades redirects the legacy student route to its learner
// equivalent.
func (h *Handler) studentGrades(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "../learner/"+chi.URLParam(r, "id"), http.StatusFound)
}

func (h *Handler) deleteLearnerGrades(w http.ResponseWriter, r *http.Request) error {
	learnerID := toNumber(chi.URLParam(r, "id"))

	res, err := h.db.DeleteLearnerGrades(r.Context(), learnerID)
	if err != nil {
		return err
	}

	if res == nil {
		writeText(w, http.StatusNotFound, "Not found")
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) classGrades(w http.ResponseWriter, r *http.Request) error {
	classID := toNumber(chi.URLParam(r, "id"))

	grades, err := h.db.ClassGrades(r.Context(), classID, queryNumber(r, "learner"))
	if err != nil {
		respondError(w, err)
		return nil
	}

	if len(grades) == 0 {
		writeText(w, http.StatusBadRequest, "Not Found")
		return nil
	}

	return writeJSON(w, http.StatusOK, grades)
}

func (h *Handler) updateClassID(w http.ResponseWriter, r *http.Request) error {
	classID := toNumber(chi.URLParam(r, "id"))
	newClassID := bodyField(requestBody(r), classIDKey)

	res, err := h.db.UpdateClassID(r.Context(), classID, newClassID)
	if err == nil && res == nil {
		err = customerror.NotFound()
	}
	if err != nil {
		respondError(w, err)
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) deleteClassGrades(w http.ResponseWriter, r *http.Request) error {
	classID := toNumber(chi.URLParam(r, "id"))

	res, err := h.db.DeleteClassGrades(r.Context(), classID)
	if err != nil {
		return err
	}

	if res == nil {
		writeText(w, http.StatusNotFound, "Not found")
		return nil
	}

	return writeJSON(w, http.StatusOK, res)
}
