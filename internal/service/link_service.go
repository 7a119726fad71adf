package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/shortcode"
	"shorturl-go/response"

	"go.uber.org/zap"
)

// maxGenerateAttempts bounds collision retries. The base62^6 space makes a
// natural collision vanishingly rare; exhausting the budget is a systemic
// fault, not a user error.
const maxGenerateAttempts = 5

// GenerateFunc produces candidate codes; tests substitute deterministic ones.
type GenerateFunc func() string

// LinkService validates input, generates codes and persists new links.
type LinkService struct {
	store    repository.Store
	generate GenerateFunc
	titles   TitleFetcher
	baseURL  string
	logger   *zap.Logger
}

func NewLinkService(store repository.Store, titles TitleFetcher, baseURL string, logger *zap.Logger) *LinkService {
	return &LinkService{
		store:    store,
		generate: shortcode.Generate,
		titles:   titles,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// Create persists a new link and returns its public short URL. A requested
// code goes through custom validation and single-record-per-owner upsert
// semantics; otherwise a fresh code is generated, retrying on collision.
func (s *LinkService) Create(ctx context.Context, req dto.CreateShortLinkRequest) (string, error) {
	destination, err := normalizeForCreate(req.DestinationURL)
	if err != nil {
		return "", apperrors.InvalidURLError()
	}

	if req.RequestedCode != "" {
		return s.createCustom(ctx, req.OwnerID, req.RequestedCode, destination)
	}
	return s.createGenerated(ctx, req.OwnerID, destination)
}

func (s *LinkService) createCustom(ctx context.Context, ownerID, code, destination string) (string, error) {
	if err := shortcode.ValidateCustom(code); err != nil {
		return "", apperrors.InvalidCustomCodeError(customCodeMessageID(err), err)
	}
	if ownerID == "" {
		// custom codes are owner-scoped; anonymous creations only get
		// generated ones
		return "", apperrors.InvalidRequestError("error.invalid_request")
	}

	rec := &repository.Record{
		Code:           code,
		DestinationURL: destination,
		OwnerID:        ownerID,
		Title:          s.titles.Fetch(ctx, destination),
	}

	err := s.store.UpsertCustom(ctx, ownerID, rec)
	if errors.Is(err, repository.ErrCodeInUse) {
		return "", apperrors.CodeInUseError()
	}
	if err != nil {
		s.logger.Error("custom link upsert failed", zap.String("code", code), zap.Error(err))
		return "", apperrors.SystemError(err)
	}

	return s.publicURL(code), nil
}

func (s *LinkService) createGenerated(ctx context.Context, ownerID, destination string) (string, error) {
	title := s.titles.Fetch(ctx, destination)

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := s.generate()

		exists, err := s.store.Exists(ctx, repository.Generated, code)
		if err != nil {
			s.logger.Error("existence check failed", zap.String("code", code), zap.Error(err))
			return "", apperrors.SystemError(err)
		}
		if exists {
			continue
		}

		err = s.store.Insert(ctx, repository.Generated, &repository.Record{
			Code:           code,
			DestinationURL: destination,
			OwnerID:        ownerID,
			Title:          title,
		})
		if errors.Is(err, repository.ErrDuplicateCode) {
			// lost the exists/insert race; only this failure is retried
			continue
		}
		if err != nil {
			s.logger.Error("link insert failed", zap.String("code", code), zap.Error(err))
			return "", apperrors.SystemError(err)
		}

		return s.publicURL(code), nil
	}

	s.logger.Error("code generation exhausted retry budget",
		zap.Int("attempts", maxGenerateAttempts))
	return "", apperrors.SystemError(repository.ErrDuplicateCode)
}

// List pages through an owner's generated links.
func (s *LinkService) List(ctx context.Context, ownerID string, page, size int) (*response.PageResponse[dto.ShortLinkItem], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	records, total, err := s.store.ListGenerated(ctx, ownerID, size, (page-1)*size)
	if err != nil {
		s.logger.Error("link listing failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperrors.SystemError(err)
	}

	items := make([]dto.ShortLinkItem, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.ShortLinkItem{
			Code:           rec.Code,
			ShortURL:       s.publicURL(rec.Code),
			DestinationURL: rec.DestinationURL,
			Title:          rec.Title,
			ClickCount:     rec.ClickCount,
			CreatedAt:      rec.CreatedAt,
			LastClickedAt:  rec.LastClickedAt,
		})
	}

	totalPage := (int(total) + size - 1) / size
	return &response.PageResponse[dto.ShortLinkItem]{
		Page:      page,
		Size:      size,
		Total:     int(total),
		TotalPage: totalPage,
		List:      items,
	}, nil
}

// DeleteCustom removes the caller's custom link.
func (s *LinkService) DeleteCustom(ctx context.Context, ownerID string) error {
	err := s.store.DeleteCustom(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFoundError()
	}
	if err != nil {
		s.logger.Error("custom link delete failed", zap.String("owner_id", ownerID), zap.Error(err))
		return apperrors.SystemError(err)
	}
	return nil
}

func (s *LinkService) publicURL(code string) string {
	return s.baseURL + "/" + code
}

// normalizeForCreate enforces the persistence invariant: destinations always
// carry an explicit http(s) scheme. Scheme-less input is normalized rather
// than rejected; anything that still fails to parse as an absolute URL with
// a host is invalid.
func normalizeForCreate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty destination")
	}

	if idx := strings.Index(raw, "://"); idx >= 0 {
		scheme := strings.ToLower(raw[:idx])
		if scheme != "http" && scheme != "https" {
			return "", errors.New("unsupported scheme")
		}
	} else {
		raw = "https://" + raw
	}

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", errors.New("missing host")
	}
	return raw, nil
}

func customCodeMessageID(err error) string {
	switch {
	case errors.Is(err, shortcode.ErrInvalidLength):
		return "error.custom_code_length"
	case errors.Is(err, shortcode.ErrMissingLetter):
		return "error.custom_code_missing_letter"
	case errors.Is(err, shortcode.ErrMissingDigit):
		return "error.custom_code_missing_digit"
	default:
		return "error.custom_code_charset"
	}
}
