package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// utf8BOM lets Excel detect the encoding when opening the CSV directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{
	"Event ID", "User", "Device", "Type", "Description",
	"Status", "Date", "Latitude", "Longitude",
}

// ExportRequest event export parameters. User and both dates are required;
// the range is inclusive.
type ExportRequest struct {
	UserID    int64
	StartDate string
	EndDate   string
	Format    string // csv (default) | xlsx
}

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders a user's events in a date range as a spreadsheet
// download.
type ExportService interface {
	ExportEvents(ctx context.Context, req ExportRequest) (*ExportFile, error)
}

type exportService struct {
	eventsRepo repository.EventsRepository
	usersRepo  repository.UsersRepository
	logger     *zap.Logger
}

func NewExportService(eventsRepo repository.EventsRepository, usersRepo repository.UsersRepository, logger *zap.Logger) ExportService {
	return &exportService{
		eventsRepo: eventsRepo,
		usersRepo:  usersRepo,
		logger:     logger,
	}
}

func (s *exportService) ExportEvents(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	// 1. Validate params
	if req.UserID <= 0 {
		return nil, domain.NewFieldValidation("user_id", "user_id is required")
	}
	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return nil, domain.NewFieldValidation("start_date", "start_date and end_date are required")
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	format := req.Format
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, domain.NewFieldValidation("format", "format must be csv or xlsx")
	}

	// 2. Resolve the user; the name goes into the filename.
	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Fetch events
	events, err := s.eventsRepo.ListEvents(ctx, repository.EventFilters{
		UserID:    &req.UserID,
		StartDate: start,
		EndDate:   end,
	}, 0, 0)
	if err != nil {
		s.logger.Error("Export query failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return nil, domain.NewPersistence("failed to query events for export", err)
	}
	if len(events) == 0 {
		return nil, domain.NewNotFound("no events found in the given date range")
	}

	// 4. Render
	base := fmt.Sprintf("events_%s_%s",
		strings.ReplaceAll(user.FullName, " ", "_"),
		time.Now().Format(dateLayout),
	)
	var file *ExportFile
	if format == ExportFormatXLSX {
		file, err = renderXLSX(base, events)
	} else {
		file, err = renderCSV(base, events)
	}
	if err != nil {
		s.logger.Error("Export render failed", zap.String("format", format), zap.Error(err))
		return nil, domain.NewPersistence("failed to render export file", err)
	}

	s.logger.Info("Export generated",
		zap.Int64("user_id", req.UserID),
		zap.String("format", format),
		zap.Int("events", len(events)),
	)
	return file, nil
}

func (s *exportService) getUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.usersRepo.GetUser(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, domain.NewPersistence("failed to get user", err)
	}
	return user, nil
}

func eventRow(e *domain.Event) []string {
	device := "N/A"
	if e.DeviceID.Valid {
		device = e.DeviceID.String
	}
	var lat, lon string
	if e.Latitude.Valid {
		lat = strconv.FormatFloat(e.Latitude.Float64, 'f', -1, 64)
	}
	if e.Longitude.Valid {
		lon = strconv.FormatFloat(e.Longitude.Float64, 'f', -1, 64)
	}
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.UserName.String,
		device,
		e.Type,
		e.Description.String,
		e.Status,
		e.CreatedAt.Format("2006-01-02 15:04:05"),
		lat,
		lon,
	}
}

func renderCSV(base string, events []*domain.Event) (*ExportFile, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, e := range events {
		if err := w.Write(eventRow(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    base + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Content:     buf.Bytes(),
	}, nil
}

func renderXLSX(base string, events []*domain.Event) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Events"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, e := range events {
		row := eventRow(e)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    base + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}
