package ui

import (
	"bytes"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"linedash/adapters/chart"
	"linedash/adapters/excel"
	"linedash/app"
	"linedash/domain/dataset"
	"linedash/domain/selection"
	"linedash/internal/errors"
	"linedash/internal/pipeline"
	"linedash/internal/session"
	"linedash/ui/middleware"
	"linedash/ui/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ServerConfig configures the HTML dashboard
type ServerConfig struct {
	GinMode     string
	CookieName  string
	SessionTTL  time.Duration
	ChartWidth  int
	ChartHeight int
}

// Server is the HTML dashboard: sidebar filters, sections, charts, grid, exports
type Server struct {
	router    *gin.Engine
	dashboard *app.DashboardService
	sessions  *session.Store
	charts    *services.ChartService
	render    *services.RenderService
	config    ServerConfig
}

// indexPage is the data behind index.html
type indexPage struct {
	View             *app.View
	Catalog          pipeline.Catalog
	Selection        selection.Selection
	Grid             *app.GridPage
	OperatorsCaption string
	AllDataTitle     string
}

// NewServer wires the dashboard routes
func NewServer(dashboard *app.DashboardService, sessions *session.Store, config ServerConfig) (*Server, error) {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	if config.CookieName == "" {
		config.CookieName = "linedash_session"
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		sessions:  sessions,
		charts:    services.NewChartService(dashboard, chart.NewRenderer(config.ChartWidth, config.ChartHeight), 128),
		render:    services.NewRenderService(templates),
		config:    config,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	pages := s.router.Group("/")
	pages.Use(middleware.EnsureSession(s.sessions, s.config.CookieName, s.config.SessionTTL, s.dashboard.DefaultSelection))
	pages.GET("/", s.handleIndex)
	pages.POST("/filters", s.handleFilters)
	pages.POST("/filters/reset", s.handleResetFilters)
	pages.GET("/charts/:name", s.handleChart)
	pages.GET("/grid", s.handleGrid)
	pages.GET("/export/filtered.xlsx", s.handleExport(false))
	pages.GET("/export/unused.xlsx", s.handleExport(true))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) currentSelection(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.Current(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errors.CodeInternalError, "message": "no session"})
	}
	return sess, ok
}

func (s *Server) handleIndex(c *gin.Context) {
	sess, ok := s.currentSelection(c)
	if !ok {
		return
	}

	page := indexPage{
		View:             s.dashboard.Build(sess.Selection),
		Catalog:          s.dashboard.Catalog(),
		Selection:        sess.Selection,
		OperatorsCaption: app.OperatorsCaption,
		AllDataTitle:     app.AllDataTitle,
	}
	if page.View.GridEnabled {
		grid, err := s.dashboard.Grid(app.GridQuery{Page: 1})
		if err != nil {
			abortWithError(c, err)
			return
		}
		page.Grid = grid
	}
	s.renderTemplate(c, tmplIndex, page)
}

// handleFilters replaces the session selection with the submitted form. A
// column with no submitted values selects nothing.
func (s *Server) handleFilters(c *gin.Context) {
	sess, ok := s.currentSelection(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		abortWithError(c, errors.InvalidInput("malformed filter form"))
		return
	}

	sel := make(selection.Selection)
	for _, col := range s.dashboard.Catalog().Columns() {
		sel[col] = selection.NewSet(c.Request.PostForm[col]...)
	}
	if _, err := s.sessions.Update(sess.ID, s.dashboard.Normalize(sel)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleResetFilters(c *gin.Context) {
	sess, ok := s.currentSelection(c)
	if !ok {
		return
	}
	if _, err := s.sessions.Update(sess.ID, s.dashboard.DefaultSelection()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleChart(c *gin.Context) {
	sess, ok := s.currentSelection(c)
	if !ok {
		return
	}
	id := app.SectionID(strings.TrimSuffix(c.Param("name"), ".png"))

	etag := `"` + s.charts.Key(sess.Selection, id) + `"`
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	img, err := s.charts.PNG(sess.Selection, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("ETag", etag)
	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, "image/png", img)
}

func (s *Server) handleGrid(c *gin.Context) {
	if !s.dashboard.Options().DataGridEnabled {
		abortWithError(c, errors.NotFound("data grid"))
		return
	}
	var q app.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, errors.InvalidInput(err.Error()))
		return
	}
	page, err := s.dashboard.Grid(q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.renderTemplate(c, tmplGrid, page)
}

func (s *Server) handleExport(unused bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.currentSelection(c)
		if !ok {
			return
		}

		var table *dataset.Table
		filename, sheet := "linhas_filtradas.xlsx", "Linhas"
		if unused {
			table = s.dashboard.Unused(sess.Selection)
			filename, sheet = "linhas_sem_uso.xlsx", "Sem uso"
		} else {
			table = s.dashboard.Filtered(sess.Selection)
		}

		var buf bytes.Buffer
		if err := excel.WriteTable(&buf, table, sheet); err != nil {
			abortWithError(c, errors.Wrap(err, "failed to export workbook"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	data := s.dashboard.Datasets()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"lines":    data.Lines.Len(),
		"stations": data.Stations.Len(),
		"sessions": s.sessions.Len(),
		"charts":   s.charts.Len(),
	})
}

// abortWithError maps an AppError code onto an HTTP status.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errors.GetCode(err), "message": err.Error()})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeSchemaError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
