// Package server is the HTTP surface: multipart upload handling, analysis
// endpoints, diagnostic endpoints, and report download.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/classify"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/history"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/match"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/pipeline"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/report"
)

// Server wires the pipeline behind the HTTP routes.
type Server struct {
	cfg        *common.Config
	pipeline   *pipeline.Pipeline
	extractor  extract.TextExtractor
	matcher    *match.Matcher
	classifier *classify.Classifier
	reports    *report.Service
	history    *history.Store
	advisoryOn bool
	logger     *slog.Logger
}

func New(cfg *common.Config, p *pipeline.Pipeline, extractor extract.TextExtractor, matcher *match.Matcher,
	classifier *classify.Classifier, reports *report.Service, hist *history.Store, advisoryOn bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		pipeline:   p,
		extractor:  extractor,
		matcher:    matcher,
		classifier: classifier,
		reports:    reports,
		history:    hist,
		advisoryOn: advisoryOn,
		logger:     logger,
	}
}

// Router builds the gin engine with the full middleware chain and routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(RequestLogger())
	router.Use(CORS(s.cfg.Server.AllowOrigins))
	router.MaxMultipartMemory = s.cfg.Server.MaxUploadMB << 20

	router.GET("/", s.handleIndex)
	router.GET("/system-status", s.handleSystemStatus)
	router.POST("/analyze", s.handleAnalyze)
	router.POST("/test-patterns", s.handleTestPatterns)
	router.POST("/debug-document", s.handleDebugDocument)
	router.POST("/generate-report", s.handleGenerateReport)

	return router
}

// Serve runs the HTTP server until the listener fails.
func (s *Server) Serve() error {
	srv := &http.Server{
		Addr:         s.cfg.Server.HTTPAddr,
		Handler:      s.Router(),
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.logger.Info("server.listening", "addr", s.cfg.Server.HTTPAddr)
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "govdocgenie",
		"endpoints": []string{
			"POST /analyze",
			"GET /system-status",
			"POST /test-patterns",
			"POST /debug-document",
			"POST /generate-report",
		},
	})
}

// handleAnalyze accepts one multipart file per document slot, keyed
// "<type>_file" (gst_file, pan_file, udyam_file, quotation_file), stores
// each upload under a collision-free name and runs the pipeline.
func (s *Server) handleAnalyze(c *gin.Context) {
	var docs []pipeline.Document
	for _, docType := range constants.DocumentTypes {
		key := fmt.Sprintf("%s_file", docType)
		file, err := c.FormFile(key)
		if err != nil {
			continue
		}

		if !constants.IsAllowedExt(filepath.Ext(file.Filename)) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Unsupported file type for %s: %s", key, filepath.Ext(file.Filename)),
			})
			return
		}

		path, err := s.saveUpload(c, file.Filename, key)
		if err != nil {
			s.logger.Error("server.upload_failed", "field", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to store uploaded file",
			})
			return
		}
		docs = append(docs, pipeline.Document{Type: docType, Path: path})
	}

	if len(docs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No documents uploaded",
		})
		return
	}

	resp := s.pipeline.Analyze(c.Request.Context(), docs)
	s.history.Append(c.Request.Context(), resp)
	c.JSON(http.StatusOK, resp)
}

// saveUpload writes the multipart file to the upload directory under a
// timestamp-plus-original-name composite so concurrent requests never
// collide.
func (s *Server) saveUpload(c *gin.Context, filename, field string) (string, error) {
	if err := os.MkdirAll(s.cfg.Server.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%s_%s",
		time.Now().UnixNano(), field, filepath.Base(filename))
	path := filepath.Join(s.cfg.Server.UploadDir, name)

	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// handleSystemStatus reports tool availability and capability state.
func (s *Server) handleSystemStatus(c *gin.Context) {
	tools := gin.H{}
	for name, bin := range map[string]string{
		"pdftotext": s.cfg.OCR.Pdftotext,
		"pdftoppm":  s.cfg.OCR.Pdftoppm,
		"tesseract": s.cfg.OCR.Tesseract,
	} {
		_, err := exec.LookPath(bin)
		tools[name] = err == nil
	}

	recent, err := s.history.Recent(c.Request.Context(), 10)
	if err != nil {
		s.logger.Warn("server.history_read_failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"tools":             tools,
		"classifier_loaded": s.classifier.Loaded(),
		"advisory_enabled":  s.advisoryOn,
		"history_enabled":   s.history != nil,
		"patterns":          pipeline.PatternsUsed,
		"recent_analyses":   recent,
	})
}

// handleTestPatterns extracts one uploaded file and runs every field pattern
// over its fragments, for operators checking why a field did or did not match.
func (s *Server) handleTestPatterns(c *gin.Context) {
	path, ok := s.uploadedFile(c)
	if !ok {
		return
	}

	frags := s.extractor.Extract(c.Request.Context(), path)

	patterns := map[string]string{
		constants.FieldGSTNumber:      constants.GSTPattern,
		constants.FieldPANNumber:      constants.PANPattern,
		constants.FieldUdyamNumber:    constants.UdyamPattern,
		constants.FieldCompanyName:    constants.CompanyNamePattern,
		constants.FieldQuotationDate:  constants.DatePattern,
		constants.FieldQuotationPrice: constants.PricePattern,
		constants.FieldSignature:      constants.SignaturePattern,
	}

	results := gin.H{}
	for field, pattern := range patterns {
		matches := s.matcher.Find(frags, pattern, field)
		values := make([]string, len(matches))
		for i, m := range matches {
			values[i] = m.Value
		}
		results[field] = gin.H{"count": len(matches), "values": values}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"fragments": len(frags),
		"results":   results,
	})
}

// uploadedFile pulls the single "file" multipart field through the usual
// extension check and upload store, writing the error response itself.
func (s *Server) uploadedFile(c *gin.Context) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Upload exactly one file under the 'file' field",
		})
		return "", false
	}
	if !constants.IsAllowedExt(filepath.Ext(file.Filename)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Unsupported file type: %s", filepath.Ext(file.Filename)),
		})
		return "", false
	}

	path, err := s.saveUpload(c, file.Filename, "file")
	if err != nil {
		s.logger.Error("server.upload_failed", "field", "file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to store uploaded file",
		})
		return "", false
	}
	return path, true
}

// handleDebugDocument extracts a single uploaded file and returns the
// fragment inventory without running validation or decisions.
func (s *Server) handleDebugDocument(c *gin.Context) {
	path, ok := s.uploadedFile(c)
	if !ok {
		return
	}

	frags := s.extractor.Extract(c.Request.Context(), path)
	if len(frags) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":     false,
			"error":       "No text extracted",
			"suggestions": pipeline.CommonFixes,
		})
		return
	}

	bySource := map[constants.SourceType]int{}
	for _, f := range frags {
		bySource[f.SourceType]++
	}
	preview := frags
	if len(preview) > 50 {
		preview = preview[:50]
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"fragments":   len(frags),
		"total_chars": extract.TotalChars(frags),
		"by_source":   bySource,
		"preview":     preview,
	})
}

// handleGenerateReport renders a previously returned analysis payload into
// an XLSX compliance report.
func (s *Server) handleGenerateReport(c *gin.Context) {
	var resp pipeline.Response
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Body must be a full analysis response",
		})
		return
	}

	data, err := s.reports.RenderXLSX(resp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("compliance-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
