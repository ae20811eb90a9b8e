package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/hnbot/internal/config"
	"github.com/alphabot-ai/hnbot/internal/extract"
	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/metrics"
	"github.com/alphabot-ai/hnbot/internal/news"
	"github.com/alphabot-ai/hnbot/internal/tools"

	_ "github.com/alphabot-ai/hnbot/docs" // swagger docs

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

type Server struct {
	svc    *news.Service
	reg    *tools.Registry
	ex     *extract.Extractor
	cfg    config.Config
	health http.Handler
}

func NewServer(svc *news.Service, reg *tools.Registry, ex *extract.Extractor, cfg config.Config) *Server {
	s := &Server{svc: svc, reg: reg, ex: ex, cfg: cfg}
	s.health = metrics.Middleware("/health", http.HandlerFunc(s.handleHealth))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" || path == "/health" || path == "/ready" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.health.ServeHTTP(w, r)
		return
	}
	if path == "/metrics" {
		promhttp.Handler().ServeHTTP(w, r)
		return
	}
	if strings.HasPrefix(path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/") {
		s.handleAPI(w, r)
		return
	}
	notFound(w)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	segments := splitPath(path)

	start := time.Now()
	rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	w = rec
	defer func() {
		metrics.ObserveRequest(r.Method, routePattern(segments), rec.status, time.Since(start))
	}()

	switch {
	case len(segments) == 2 && segments[0] == "item":
		if r.Method == http.MethodGet {
			s.handleGetItem(w, r, segments[1])
			return
		}
	case len(segments) == 2 && segments[0] == "user":
		if r.Method == http.MethodGet {
			s.handleGetUser(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "maxitem":
		if r.Method == http.MethodGet {
			s.handleMaxItem(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "updates":
		if r.Method == http.MethodGet {
			s.handleUpdates(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "stories" && segments[1] == "search":
		if r.Method == http.MethodGet {
			s.handleSearchStories(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "stories" && segments[1] == "by-date":
		if r.Method == http.MethodGet {
			s.handleStoriesByDate(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "stories":
		if r.Method == http.MethodGet {
			s.handleListStories(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "stories" && segments[2] == "stream":
		if r.Method == http.MethodGet {
			s.handleStreamStories(w, r, segments[1])
			return
		}
	case len(segments) == 2 && segments[0] == "story" && segments[1] == "by-title":
		if r.Method == http.MethodGet {
			s.handleStoryByTitle(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "story" && segments[1] == "content" && segments[2] == "by-title":
		if r.Method == http.MethodGet {
			s.handleContentByTitle(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "story" && segments[2] == "comments":
		if r.Method == http.MethodGet {
			s.handleStoryComments(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "story" && segments[2] == "content":
		if r.Method == http.MethodGet {
			s.handleStoryContent(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "tools":
		if r.Method == http.MethodGet {
			s.handleListTools(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "tools":
		if r.Method == http.MethodPost {
			s.handleInvokeTool(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "prompts":
		if r.Method == http.MethodGet {
			s.handleListPrompts(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "prompts":
		if r.Method == http.MethodPost {
			s.handleRenderPrompt(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "resources":
		if r.Method == http.MethodGet {
			s.handleListResources(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "resources" && segments[1] == "read":
		if r.Method == http.MethodGet {
			s.handleReadResource(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "version":
		if r.Method == http.MethodGet {
			s.handleVersion(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "openapi.json":
		if r.Method == http.MethodGet {
			s.serveOpenAPIJSON(w, r)
			return
		}
	}

	notFound(w)
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Liveness probe. Always returns ok while the process runs.
//	@Tags			Items
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "hnbot",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    s.cfg.Version,
		"commit":     s.cfg.Commit,
		"build_time": s.cfg.BuildTime,
	})
}

// handleGetItem godoc
//
//	@Summary		Get an item
//	@Description	Get a single item (story, comment, job, poll) by id
//	@Tags			Items
//	@Produce		json
//	@Param			id	path		int	true	"Item id"
//	@Success		200	{object}	model.Item
//	@Failure		404	{object}	map[string]string	"Item not found"
//	@Router			/api/item/{id} [get]
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}
	item, err := s.svc.Item(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleGetUser godoc
//
//	@Summary		Get a user
//	@Description	Get a user profile by case-sensitive username
//	@Tags			Items
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		200			{object}	model.User
//	@Failure		404			{object}	map[string]string	"User not found"
//	@Router			/api/user/{username} [get]
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, username string) {
	user, err := s.svc.User(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleMaxItem godoc
//
//	@Summary		Get max item id
//	@Description	Get the current largest item id
//	@Tags			Items
//	@Produce		json
//	@Success		200	{object}	map[string]int
//	@Router			/api/maxitem [get]
func (s *Server) handleMaxItem(w http.ResponseWriter, r *http.Request) {
	id, err := s.svc.MaxItem(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"max_item_id": id})
}

// handleUpdates godoc
//
//	@Summary		Get updates
//	@Description	Get recently changed items and profiles
//	@Tags			Items
//	@Produce		json
//	@Success		200	{object}	model.Updates
//	@Router			/api/updates [get]
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	upd, err := s.svc.Updates(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

// handleListStories godoc
//
//	@Summary		List stories
//	@Description	Get a story list (top, new, best, ask, show, job) resolved to items in upstream order
//	@Tags			Stories
//	@Produce		json
//	@Param			kind	path		string	true	"List kind"	Enums(top, new, best, ask, show, job)
//	@Param			limit	query		int		false	"Max stories"	default(30)
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string	"Unknown list kind"
//	@Router			/api/stories/{kind} [get]
func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request, kindStr string) {
	kind, ok := hn.ParseListKind(kindStr)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown list kind"))
		return
	}
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	items, err := s.svc.Stories(r.Context(), kind, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":    kind,
		"count":   len(items),
		"stories": items,
	})
}

// handleSearchStories godoc
//
//	@Summary		Find stories by title
//	@Description	Score recent stories against a free-text query and return the best matches
//	@Tags			Stories
//	@Produce		json
//	@Param			query		query		string	true	"Title query"
//	@Param			pool		query		string	false	"Candidate list kind"	default(new)
//	@Param			pool_size	query		int		false	"Candidate pool size"	default(200)
//	@Param			limit		query		int		false	"Max matches"			default(5)
//	@Success		200			{object}	map[string]interface{}
//	@Failure		400			{object}	map[string]string	"Missing query"
//	@Router			/api/stories/search [get]
func (s *Server) handleSearchStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches, err := s.svc.FindByTitle(r.Context(),
		q.Get("query"),
		hn.ListKind(q.Get("pool")),
		parseIntDefault(q.Get("pool_size"), 0),
		parseIntDefault(q.Get("limit"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q.Get("query"),
		"count":   len(matches),
		"matches": matches,
	})
}

// handleStoriesByDate godoc
//
//	@Summary		Stories by date
//	@Description	Get stories posted within a UTC day bucket, newest first
//	@Tags			Stories
//	@Produce		json
//	@Param			days_ago	query		int	false	"0 for today, 1 for yesterday"	default(0)
//	@Param			limit		query		int	false	"Max stories"					default(30)
//	@Success		200			{object}	map[string]interface{}
//	@Router			/api/stories/by-date [get]
func (s *Server) handleStoriesByDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	daysAgo := parseIntDefault(q.Get("days_ago"), 0)
	items, err := s.svc.ByDate(r.Context(), daysAgo, parseIntDefault(q.Get("limit"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days_ago": daysAgo,
		"count":    len(items),
		"stories":  items,
	})
}

// handleStoryByTitle godoc
//
//	@Summary		Story by title
//	@Description	Get the best-matching story for a title query, with its comment tree
//	@Tags			Comments
//	@Produce		json
//	@Param			title			query		string	true	"Title query"
//	@Param			comment_limit	query		int		false	"Comments per level"	default(10)
//	@Param			max_depth		query		int		false	"Reply depth"			default(2)
//	@Success		200				{object}	model.StoryThread
//	@Failure		404				{object}	map[string]string	"No matching story"
//	@Router			/api/story/by-title [get]
func (s *Server) handleStoryByTitle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	thread, err := s.svc.StoryByTitle(r.Context(),
		q.Get("title"),
		parseIntDefault(q.Get("comment_limit"), 0),
		parseIntDefault(q.Get("max_depth"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// handleStoryComments godoc
//
//	@Summary		Get story comments
//	@Description	Get a story with its comment tree, depth-limited and per-level bounded
//	@Tags			Comments
//	@Produce		json
//	@Param			id				path		int	true	"Story id"
//	@Param			comment_limit	query		int	false	"Comments per level"	default(10)
//	@Param			max_depth		query		int	false	"Reply depth"			default(2)
//	@Success		200				{object}	model.StoryThread
//	@Failure		404				{object}	map[string]string	"Story not found"
//	@Router			/api/story/{id}/comments [get]
func (s *Server) handleStoryComments(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid story id"))
		return
	}
	q := r.URL.Query()
	thread, err := s.svc.StoryThread(r.Context(), id,
		parseIntDefault(q.Get("comment_limit"), 0),
		parseIntDefault(q.Get("max_depth"), 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// handleStoryContent godoc
//
//	@Summary		Get story content
//	@Description	Fetch a story's linked page as readable markdown or text. Extraction failures return ok:false, not an error status.
//	@Tags			Content
//	@Produce		json
//	@Param			id		path		int		true	"Story id"
//	@Param			format	query		string	false	"Output format"	Enums(markdown, text, json)	default(markdown)
//	@Success		200		{object}	model.ContentResult
//	@Failure		404		{object}	map[string]string	"Story not found"
//	@Router			/api/story/{id}/content [get]
func (s *Server) handleStoryContent(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid story id"))
		return
	}
	format, err := extract.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	story, err := s.svc.Item(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result := s.ex.Extract(r.Context(), story, format)
	metrics.ContentExtractions.WithLabelValues(format, extractStatus(result.OK)).Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleContentByTitle godoc
//
//	@Summary		Get content by title
//	@Description	Find the best-matching story for a title query and fetch its linked page
//	@Tags			Content
//	@Produce		json
//	@Param			title	query		string	true	"Title query"
//	@Param			format	query		string	false	"Output format"	Enums(markdown, text, json)	default(markdown)
//	@Success		200		{object}	model.ContentResult
//	@Failure		404		{object}	map[string]string	"No matching story"
//	@Router			/api/story/content/by-title [get]
func (s *Server) handleContentByTitle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := extract.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	matches, err := s.svc.FindByTitle(r.Context(), q.Get("title"), "", 0, 1)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(matches) == 0 {
		notFound(w)
		return
	}
	result := s.ex.Extract(r.Context(), matches[0].Item, format)
	metrics.ContentExtractions.WithLabelValues(format, extractStatus(result.OK)).Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleListTools godoc
//
//	@Summary		List tools
//	@Description	List every callable tool with its parameter schema
//	@Tags			Tools
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/api/tools [get]
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	infos := s.reg.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(infos),
		"tools": infos,
	})
}

// handleInvokeTool godoc
//
//	@Summary		Invoke a tool
//	@Description	Invoke a tool by name with a JSON object of arguments
//	@Tags			Tools
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Tool name"
//	@Param			args	body		map[string]interface{}	false	"Tool arguments"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		404		{object}	map[string]string	"Unknown tool"
//	@Router			/api/tools/{name} [post]
func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request, name string) {
	var args tools.Args
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, errors.New("request body must be a JSON object"))
		return
	}
	result, err := s.reg.Invoke(r.Context(), name, args)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ToolInvocationsTotal.WithLabelValues(name, "http", status).Inc()
	if err != nil {
		if errors.Is(err, tools.ErrUnknownTool) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tool":   name,
		"result": result,
	})
}

// handleListPrompts godoc
//
//	@Summary		List prompt templates
//	@Description	List the named prompt templates for story, thread, and user analysis
//	@Tags			Tools
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/api/prompts [get]
func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	infos := tools.Prompts()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(infos),
		"prompts": infos,
	})
}

// handleRenderPrompt godoc
//
//	@Summary		Render a prompt template
//	@Description	Fill a prompt template by name with a JSON object of parameters
//	@Tags			Tools
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string					true	"Prompt name"
//	@Param			params	body		map[string]interface{}	false	"Template parameters"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string	"Unknown prompt"
//	@Router			/api/prompts/{name} [post]
func (s *Server) handleRenderPrompt(w http.ResponseWriter, r *http.Request, name string) {
	var args tools.Args
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, errors.New("request body must be a JSON object"))
		return
	}
	text, err := tools.RenderPrompt(name, args)
	if err != nil {
		if errors.Is(err, tools.ErrUnknownPrompt) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":   name,
		"prompt": text,
	})
}

// handleListResources godoc
//
//	@Summary		List resources
//	@Description	List the hn:// resource URI templates
//	@Tags			Resources
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/api/resources [get]
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	infos := tools.Resources()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(infos),
		"resources": infos,
	})
}

// handleReadResource godoc
//
//	@Summary		Read a resource
//	@Description	Resolve an hn:// resource URI and return its content
//	@Tags			Resources
//	@Produce		json
//	@Param			uri	query		string	true	"Resource URI, e.g. hn://item/8863"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	map[string]string	"Malformed URI"
//	@Router			/api/resources/read [get]
func (s *Server) handleReadResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	result, err := s.reg.Resolve(r.Context(), uri)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"uri":    uri,
		"result": result,
	})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

// writeServiceError maps the service error taxonomy onto HTTP status
// codes: invalid argument 400, not found 404, upstream failure 502.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, news.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, hn.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		var ue *hn.UpstreamError
		if errors.As(err, &ue) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return def
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func extractStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

// statusWriter records the status code for request metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// routePattern collapses id-bearing segments so metric labels stay
// bounded.
func routePattern(segments []string) string {
	parts := make([]string, len(segments))
	copy(parts, segments)
	for i, seg := range parts {
		if _, err := strconv.Atoi(seg); err == nil {
			parts[i] = ":id"
			continue
		}
		switch {
		case i == 1 && parts[0] == "user":
			parts[i] = ":username"
		case i == 1 && parts[0] == "stories":
			if _, ok := hn.ParseListKind(seg); ok {
				parts[i] = ":kind"
			}
		case i == 1 && (parts[0] == "tools" || parts[0] == "prompts"):
			parts[i] = ":name"
		}
	}
	return "/api/" + strings.Join(parts, "/")
}
