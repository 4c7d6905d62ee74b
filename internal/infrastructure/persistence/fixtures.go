package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence/models"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixture model labels understood by the FixtureLoader
const (
	FixtureTitle = "core.title"
	FixtureBatch = "core.batch"
	FixtureIssue = "core.issue"
	FixturePage  = "core.page"
	FixtureOCR   = "core.ocr"
)

// fixtureOrder is the order objects are inserted in, parents first
var fixtureOrder = []string{FixtureTitle, FixtureBatch, FixtureIssue, FixturePage, FixtureOCR}

var fixtureTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type fixtureObject struct {
	Model  string                     `json:"model"`
	PK     json.RawMessage            `json:"pk"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// FixtureLoader loads Django style JSON fixtures of titles, batches, issues,
// pages and OCR text. Primary keys of the fixtures are mapped to generated
// uuids; titles and batches are also resolved by LCCN and name, so fixtures
// split over several files can reference each other.
type FixtureLoader struct {
	db        *gorm.DB
	repo      batches.BatchRepository
	logger    logger.Logger
	batchRoot string

	titles map[string]string
	batch  map[string]string
	issues map[string]string
	pages  map[string]string
}

// NewFixtureLoader creates a FixtureLoader. Batches without a storage_path
// field are stored under batchRoot/<name>.
func NewFixtureLoader(db *gorm.DB, logger logger.Logger, batchRoot string) (*FixtureLoader, error) {
	repo, err := NewGormBatchRepository(db, logger)
	if err != nil {
		return nil, err
	}

	return &FixtureLoader{
		db:        db,
		repo:      repo,
		logger:    logger,
		batchRoot: batchRoot,
		titles:    map[string]string{},
		batch:     map[string]string{},
		issues:    map[string]string{},
		pages:     map[string]string{},
	}, nil
}

// FixtureStats counts the objects inserted by one Load
type FixtureStats map[string]int

// Load inserts every supported object of the fixture read from r. Objects of
// other models are skipped.
func (l *FixtureLoader) Load(ctx context.Context, r io.Reader) (FixtureStats, error) {
	var objects []fixtureObject
	if err := json.NewDecoder(r).Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	byModel := map[string][]fixtureObject{}
	skipped := 0
	for _, obj := range objects {
		switch obj.Model {
		case FixtureTitle, FixtureBatch, FixtureIssue, FixturePage, FixtureOCR:
			byModel[obj.Model] = append(byModel[obj.Model], obj)
		default:
			skipped++
		}
	}
	if skipped > 0 {
		l.logger.Debug("Skipped fixture objects of unsupported models", "count", skipped)
	}

	stats := FixtureStats{}
	for _, model := range fixtureOrder {
		for _, obj := range byModel[model] {
			if err := l.loadObject(ctx, obj); err != nil {
				return stats, fmt.Errorf("failed to load %s %s: %w", obj.Model, pkString(obj.PK), err)
			}
			stats[model]++
		}
	}

	l.logger.Info("Loaded fixture", "titles", stats[FixtureTitle], "batches", stats[FixtureBatch],
		"issues", stats[FixtureIssue], "pages", stats[FixturePage], "ocr", stats[FixtureOCR])
	return stats, nil
}

func (l *FixtureLoader) loadObject(ctx context.Context, obj fixtureObject) error {
	switch obj.Model {
	case FixtureTitle:
		return l.loadTitle(ctx, obj)
	case FixtureBatch:
		return l.loadBatch(ctx, obj)
	case FixtureIssue:
		return l.loadIssue(ctx, obj)
	case FixturePage:
		return l.loadPage(ctx, obj)
	case FixtureOCR:
		return l.loadOCR(ctx, obj)
	}
	return fmt.Errorf("unsupported fixture model %s", obj.Model)
}

func (l *FixtureLoader) loadTitle(ctx context.Context, obj fixtureObject) error {
	lccn, err := stringField(obj.Fields, "lccn")
	if err != nil {
		// titles keyed by LCCN carry it as pk only
		lccn = pkString(obj.PK)
	}
	name, err := stringField(obj.Fields, "name")
	if err != nil {
		return err
	}

	title := &batches.Title{ID: uuid.NewString(), LCCN: lccn, Name: name}
	if err := l.repo.CreateTitle(ctx, title); err != nil {
		return err
	}

	l.titles[pkString(obj.PK)] = title.ID
	l.titles[lccn] = title.ID
	return nil
}

func (l *FixtureLoader) loadBatch(ctx context.Context, obj fixtureObject) error {
	name, err := stringField(obj.Fields, "name")
	if err != nil {
		name = pkString(obj.PK)
	}

	storagePath, err := stringField(obj.Fields, "storage_path")
	if err != nil {
		storagePath = filepath.Join(l.batchRoot, name)
	}

	created := time.Now().UTC()
	if raw, ok := obj.Fields["created"]; ok {
		if created, err = parseFixtureTime(raw); err != nil {
			return fmt.Errorf("field created: %w", err)
		}
	}

	batch := &batches.Batch{
		ID:              uuid.NewString(),
		Name:            name,
		StoragePath:     storagePath,
		DateTimeCreated: created,
	}
	if err := l.repo.Create(ctx, batch); err != nil {
		return err
	}

	l.batch[pkString(obj.PK)] = batch.ID
	l.batch[name] = batch.ID
	return nil
}

func (l *FixtureLoader) loadIssue(ctx context.Context, obj fixtureObject) error {
	titleID, err := l.resolveTitle(ctx, obj.Fields["title"])
	if err != nil {
		return err
	}
	batchID, err := l.resolveBatch(ctx, obj.Fields["batch"])
	if err != nil {
		return err
	}

	raw, ok := obj.Fields["date_issued"]
	if !ok {
		return fmt.Errorf("missing field date_issued")
	}
	dateIssued, err := parseFixtureTime(raw)
	if err != nil {
		return fmt.Errorf("field date_issued: %w", err)
	}

	edition := 1
	if raw, ok := obj.Fields["edition"]; ok {
		if err := json.Unmarshal(raw, &edition); err != nil {
			return fmt.Errorf("field edition: %w", err)
		}
	}

	issue := &batches.Issue{
		ID:         uuid.NewString(),
		BatchID:    batchID,
		TitleID:    titleID,
		DateIssued: dateIssued,
		Edition:    edition,
	}
	if err := l.repo.CreateIssue(ctx, issue); err != nil {
		return err
	}

	l.issues[pkString(obj.PK)] = issue.ID
	return nil
}

func (l *FixtureLoader) loadPage(ctx context.Context, obj fixtureObject) error {
	issueID, ok := l.issues[pkString(obj.Fields["issue"])]
	if !ok {
		return fmt.Errorf("unknown issue %s", pkString(obj.Fields["issue"]))
	}

	var sequence int
	if err := json.Unmarshal(obj.Fields["sequence"], &sequence); err != nil {
		return fmt.Errorf("field sequence: %w", err)
	}
	ocrFilename, err := stringField(obj.Fields, "ocr_filename")
	if err != nil {
		return err
	}

	page := &batches.Page{
		ID:          uuid.NewString(),
		IssueID:     issueID,
		Sequence:    sequence,
		OCRFilename: ocrFilename,
	}
	if err := l.repo.CreatePage(ctx, page, nil); err != nil {
		return err
	}

	l.pages[pkString(obj.PK)] = page.ID
	return nil
}

func (l *FixtureLoader) loadOCR(ctx context.Context, obj fixtureObject) error {
	pageID, ok := l.pages[pkString(obj.Fields["page"])]
	if !ok {
		return fmt.Errorf("unknown page %s", pkString(obj.Fields["page"]))
	}
	text, err := stringField(obj.Fields, "text")
	if err != nil {
		return err
	}

	ocr := &batches.OCR{PageID: pageID, Text: text}
	if err := ocr.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.OCRModel{}
	model.FromDomain(ocr)
	if err := l.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ocr text: %w", err)
	}
	return nil
}

func (l *FixtureLoader) resolveTitle(ctx context.Context, ref json.RawMessage) (string, error) {
	key := pkString(ref)
	if id, ok := l.titles[key]; ok {
		return id, nil
	}

	var model models.TitleModel
	if err := l.db.WithContext(ctx).Where("lccn = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("unknown title %s", key)
		}
		return "", fmt.Errorf("failed to fetch title: %w", err)
	}
	l.titles[key] = model.ID
	return model.ID, nil
}

func (l *FixtureLoader) resolveBatch(ctx context.Context, ref json.RawMessage) (string, error) {
	key := pkString(ref)
	if id, ok := l.batch[key]; ok {
		return id, nil
	}

	batch, err := l.repo.GetByName(ctx, key)
	if err != nil {
		return "", err
	}
	l.batch[key] = batch.ID
	return batch.ID, nil
}

// pkString renders a JSON primary key or reference as a map key: strings are
// unquoted, numbers kept as written.
func pkString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %s", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %s: %w", name, err)
	}
	return s, nil
}

func parseFixtureTime(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	for _, layout := range fixtureTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", s)
}
