package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thywilljoshua/pdf-qa/internal/logger"
	"github.com/thywilljoshua/pdf-qa/internal/pipeline"
)

const Banner = "PDF summarizer backend is running."

// envelopeSlack is allowed on top of the file limit for multipart headers
// and boundaries, so the limit applies to the file itself.
const envelopeSlack = 64 << 10

// Runner is the part of the pipeline the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, data []byte) (pipeline.DocumentResult, error)
}

type Handler struct {
	runner         Runner
	maxUploadBytes int64
	log            logger.Logger
}

func NewHandler(runner Runner, maxUploadBytes int64, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{runner: runner, maxUploadBytes: maxUploadBytes, log: log}
}

// Router wires the routes onto a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	r.GET("/", h.Health)
	r.POST("/upload", h.Upload)
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Upload runs the pipeline on the multipart field "file" and answers with
// either the document result or an error object.
func (h *Handler) Upload(c *gin.Context) {
	log := h.log.With("request_id", c.GetString("request_id"))
	bodyLimit := h.maxUploadBytes + envelopeSlack
	if c.Request.ContentLength > bodyLimit {
		tooLarge(c)
		return
	}
	body := &limitedBody{ReadCloser: http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)}
	c.Request.Body = body

	header, err := c.FormFile("file")
	if err != nil {
		if body.exceeded {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, pipeline.ErrorResult{Error: "No file uploaded."})
		return
	}
	if header.Size > h.maxUploadBytes {
		tooLarge(c)
		return
	}

	f, err := header.Open()
	if err != nil {
		log.Error("failed to open upload", "err", err)
		c.JSON(http.StatusInternalServerError, pipeline.ErrorResult{Error: "Failed to read upload."})
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		log.Error("failed to read upload", "err", err)
		c.JSON(http.StatusInternalServerError, pipeline.ErrorResult{Error: "Failed to read upload."})
		return
	}

	log.Info("processing upload", "file", header.Filename, "bytes", len(data))
	res, err := h.runner.Run(c.Request.Context(), data)
	if err != nil {
		log.Error("processing failed", "file", header.Filename, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrNoText) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, pipeline.ErrorResult{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, pipeline.ErrorResult{Error: "File too large."})
}

// limitedBody remembers that the size limit was hit, whatever the multipart
// parser later wraps the error in.
type limitedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.exceeded = true
	}
	return n, err
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		h.log.Debug("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
