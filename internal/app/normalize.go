package app

import (
	"context"
	"errors"

	"github.com/Amund211/intralinks/internal/adapters/profileprovider"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/strutils"
)

// NormalizeHits converts raw fan-out hits into renderer-facing records,
// preserving input order. Hits whose author can't be resolved are skipped,
// never aborting the batch.
type NormalizeHits func(ctx context.Context, hits []domain.RawHit) []domain.BacklinkRecord

// RecordTransform lets a caller intercept each normalized record.
type RecordTransform func(record domain.BacklinkRecord, hit domain.RawHit) domain.BacklinkRecord

// ListTransform lets a caller intercept the final record list.
type ListTransform func(records []domain.BacklinkRecord) []domain.BacklinkRecord

type permalinkResolver interface {
	ResolveContentURL(tenant domain.TenantHandle, contentID string) string
}

const DEFAULT_TITLE_LIMIT = 80

type NormalizerOptions struct {
	// Maximum title length in characters; longer titles get cut to limit-3
	// and ellipsized. Zero disables truncation.
	TitleLimit *int
	// Optional per-record and final-list hooks
	TransformRecord RecordTransform
	TransformList   ListTransform
}

func BuildNormalizeHits(
	profiles profileprovider.Provider,
	resolver permalinkResolver,
	options NormalizerOptions,
) NormalizeHits {
	titleLimit := DEFAULT_TITLE_LIMIT
	if options.TitleLimit != nil {
		titleLimit = *options.TitleLimit
	}

	return func(ctx context.Context, hits []domain.RawHit) []domain.BacklinkRecord {
		records := make([]domain.BacklinkRecord, 0, len(hits))

		for _, hit := range hits {
			profile, err := profiles.GetProfile(ctx, hit.AuthorID)
			if errors.Is(err, domain.ErrAuthorNotFound) {
				logging.FromContext(ctx).WarnContext(ctx,
					"Skipping hit: author not found",
					"authorID", hit.AuthorID,
					"contentID", hit.ContentID,
				)
				continue
			}
			if err != nil {
				// NOTE: profileprovider implementations handle their own error reporting
				logging.FromContext(ctx).ErrorContext(ctx,
					"Skipping hit: failed to get profile",
					"authorID", hit.AuthorID,
					"contentID", hit.ContentID,
					"error", err.Error(),
				)
				continue
			}

			record := domain.BacklinkRecord{
				AuthorEmail: profile.Email,
				AuthorName:  profile.DisplayName,
				Title:       standardizeTitle(hit, titleLimit),
				Body:        strutils.BalanceMarkup(hit.Body),
				PublishedAt: hit.PublishedAt,
				Permalink:   resolver.ResolveContentURL(hit.Tenant, hit.ContentID),
			}

			if options.TransformRecord != nil {
				record = options.TransformRecord(record, hit)
			}

			records = append(records, record)
		}

		if options.TransformList != nil {
			records = options.TransformList(records)
		}

		return records
	}
}

// Some content ends up title-less; derive a title from the hit's own body in
// that case. Long titles are cut to avoid line breaks in the output.
func standardizeTitle(hit domain.RawHit, limit int) string {
	title := hit.Title
	if title == "" {
		title = strutils.TrimWords(hit.Body, strutils.TITLE_FALLBACK_WORD_COUNT)
	}

	return strutils.TruncateEllipsis(title, limit)
}
