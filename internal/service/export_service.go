package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/repository"
	"github.com/rs/zerolog"
)

// flushEvery is how many records are written between flushes
const flushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// row is the view of a stored record shared by every export format
type row interface {
	Row() []string
}

// Stream writes an instance's guests or rooms in the requested format.
// CSV output uses the import schema's headers, so an export of
// comma-free values imports back to the same records.
func (s *exportService) Stream(ctx context.Context, w http.ResponseWriter, req *models.ExportRequest) error {
	schema, err := lookupSchema(req.Kind)
	if err != nil {
		return err
	}

	var enc encoder
	switch req.Format {
	case "", "csv":
		enc = newCSVEncoder(w, schema.Headers())
	case "json":
		enc = &jsonEncoder{w: w}
	case "ndjson":
		enc = &ndjsonEncoder{w: w}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}

	w.Header().Set("Content-Type", enc.contentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", req.Kind, enc.extension()))

	s.log.Info().Str("instance_id", req.InstanceID).Str("kind", req.Kind).Str("format", req.Format).Msg("Starting export")

	flusher, _ := w.(http.Flusher)
	count := 0
	write := func(r row) error {
		if err := enc.write(r); err != nil {
			return err
		}
		count++
		if count%flushEvery == 0 && flusher != nil {
			enc.flush()
			flusher.Flush()
		}
		return nil
	}

	if err := enc.begin(); err != nil {
		return err
	}

	switch req.Kind {
	case importer.KindGuests:
		err = s.repos.Guest.StreamByInstance(ctx, req.InstanceID, func(g *models.Guest) error { return write(g) })
	case importer.KindRooms:
		err = s.repos.Room.StreamByInstance(ctx, req.InstanceID, func(r *models.Room) error { return write(r) })
	}
	if err != nil {
		return err
	}

	if err := enc.end(); err != nil {
		return err
	}

	s.log.Info().Int("count", count).Str("kind", req.Kind).Msg("Export completed")
	return nil
}

// Template returns a header-only CSV for a kind
func (s *exportService) Template(kind string) ([]byte, error) {
	schema, err := lookupSchema(kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(schema.Headers()); err != nil {
		return nil, err
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// GetCount returns the stored record count for a kind
func (s *exportService) GetCount(ctx context.Context, kind string) (int, error) {
	switch kind {
	case importer.KindGuests:
		return s.repos.Guest.Count(ctx)
	case importer.KindRooms:
		return s.repos.Room.Count(ctx)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

type encoder interface {
	contentType() string
	extension() string
	begin() error
	write(r row) error
	flush()
	end() error
}

type csvEncoder struct {
	w       *csv.Writer
	headers []string
}

func newCSVEncoder(w http.ResponseWriter, headers []string) *csvEncoder {
	return &csvEncoder{w: csv.NewWriter(w), headers: headers}
}

func (e *csvEncoder) contentType() string { return "text/csv" }
func (e *csvEncoder) extension() string   { return "csv" }
func (e *csvEncoder) begin() error        { return e.w.Write(e.headers) }
func (e *csvEncoder) write(r row) error   { return e.w.Write(r.Row()) }
func (e *csvEncoder) flush()              { e.w.Flush() }

func (e *csvEncoder) end() error {
	e.w.Flush()
	return e.w.Error()
}

type jsonEncoder struct {
	w     http.ResponseWriter
	first bool
}

func (e *jsonEncoder) contentType() string { return "application/json" }
func (e *jsonEncoder) extension() string   { return "json" }
func (e *jsonEncoder) flush()              {}

func (e *jsonEncoder) begin() error {
	e.first = true
	_, err := e.w.Write([]byte("["))
	return err
}

func (e *jsonEncoder) write(r row) error {
	if !e.first {
		if _, err := e.w.Write([]byte(",")); err != nil {
			return err
		}
	}
	e.first = false

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

func (e *jsonEncoder) end() error {
	_, err := e.w.Write([]byte("]"))
	return err
}

type ndjsonEncoder struct {
	w http.ResponseWriter
}

func (e *ndjsonEncoder) contentType() string { return "application/x-ndjson" }
func (e *ndjsonEncoder) extension() string   { return "ndjson" }
func (e *ndjsonEncoder) begin() error        { return nil }
func (e *ndjsonEncoder) flush()              {}
func (e *ndjsonEncoder) end() error          { return nil }

func (e *ndjsonEncoder) write(r row) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
