package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/server/responses"
)

// languageCookieMaxAge keeps the language choice for a year.
const languageCookieMaxAge = 365 * 24 * time.Hour

// maxRelatedLimit caps ?limit on the related endpoint.
const maxRelatedLimit = 20

// PostIndex answers post queries. *index.Cache implements it.
type PostIndex interface {
	AllPosts(ctx context.Context) ([]post.Meta, error)
	PostBySlug(ctx context.Context, slug string) (*post.Post, error)
	PostsByCategory(ctx context.Context, category string) ([]post.Meta, error)
	PostsByTag(ctx context.Context, tag string) ([]post.Meta, error)
	Related(ctx context.Context, slug string, limit int) ([]post.Meta, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	CategoryLabel(ctx context.Context, name string) (string, error)
	TagLabel(ctx context.Context, name string) (string, error)
}

// APIHandlers serves the post query API.
type APIHandlers struct {
	index        PostIndex
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers returns handlers over idx.
func NewAPIHandlers(idx PostIndex, adapter *errors.HTTPErrorAdapter) *APIHandlers {
	if adapter == nil {
		adapter = errors.NewHTTPErrorAdapter(slog.Default())
	}
	return &APIHandlers{index: idx, errorAdapter: adapter}
}

// HandlePosts lists post metadata, newest first. ?category= or ?tag= filter
// case-insensitively; giving both is a validation error.
func (h *APIHandlers) HandlePosts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	tag := r.URL.Query().Get("tag")

	var (
		metas []post.Meta
		err   error
	)
	switch {
	case category != "" && tag != "":
		err = errors.ValidationError("filter by category or tag, not both").
			WithContext("category", category).
			WithContext("tag", tag).
			Build()
	case category != "":
		metas, err = h.index.PostsByCategory(r.Context(), category)
	case tag != "":
		metas, err = h.index.PostsByTag(r.Context(), tag)
	default:
		metas, err = h.index.AllPosts(r.Context())
	}
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, nonNil(metas))
}

// HandlePost returns one rendered post.
func (h *APIHandlers) HandlePost(w http.ResponseWriter, r *http.Request) {
	p, err := h.index.PostBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, p)
}

// HandleRelated lists posts sharing tags or categories with a post.
func (h *APIHandlers) HandleRelated(w http.ResponseWriter, r *http.Request) {
	limit := index.DefaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRelatedLimit {
			h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("limit must be a number between 1 and 20").
				WithContext("limit", raw).
				Build())
			return
		}
		limit = n
	}
	metas, err := h.index.Related(r.Context(), r.PathValue("slug"), limit)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, nonNil(metas))
}

// HandleCategories lists categories with their labels and post counts.
func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.terms(w, r, h.index.Categories, h.index.CategoryLabel, h.index.PostsByCategory)
}

// HandleTags lists tags with their labels and post counts.
func (h *APIHandlers) HandleTags(w http.ResponseWriter, r *http.Request) {
	h.terms(w, r, h.index.Tags, h.index.TagLabel, h.index.PostsByTag)
}

func (h *APIHandlers) terms(
	w http.ResponseWriter,
	r *http.Request,
	names func(context.Context) ([]string, error),
	label func(context.Context, string) (string, error),
	posts func(context.Context, string) ([]post.Meta, error),
) {
	ctx := r.Context()
	list, err := names(ctx)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	out := make([]responses.TermResponse, 0, len(list))
	for _, name := range list {
		l, err := label(ctx, name)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		metas, err := posts(ctx, name)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		out = append(out, responses.TermResponse{Name: name, Label: l, Count: len(metas)})
	}
	h.respond(w, r, out)
}

// HandleLanguage stores the reader's language in a cookie. The requested code
// is matched against the supported languages.
func (h *APIHandlers) HandleLanguage(w http.ResponseWriter, r *http.Request) {
	var req responses.LanguageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid language request").Build())
		return
	}
	if req.Language == "" {
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("lng is required").Build())
		return
	}

	lang := i18n.Normalize(req.Language)
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	slog.Debug("Language selected", logfields.Language(lang))
	h.respond(w, r, responses.LanguageResponse{OK: true, Language: lang})
}

func (h *APIHandlers) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, r, http.StatusOK, v); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to encode response").Build())
	}
}

func nonNil(metas []post.Meta) []post.Meta {
	if metas == nil {
		return []post.Meta{}
	}
	return metas
}
