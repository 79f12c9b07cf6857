package acquire

import (
	"context"
	"fmt"
	"time"

	"github.com/freyjadaisy/EPQ/internal/logger"
)

// Fetcher is the remote side of a scrape. *Client implements it.
type Fetcher interface {
	TopPosts(ctx context.Context, group string, opts ListOptions) ([]Post, error)
	PostDetails(ctx context.Context, permalink string) (Details, error)
}

// Summary counts what one Scrape call did.
type Summary struct {
	Listed  int
	Added   int
	Skipped int
	Failed  int
	Total   int
}

type Scraper struct {
	fetcher      Fetcher
	opts         ListOptions
	saveInterval int
	errorPause   time.Duration
}

func NewScraper(f Fetcher, opts ListOptions, saveInterval int) *Scraper {
	return &Scraper{
		fetcher:      f,
		opts:         opts,
		saveInterval: max(saveInterval, 1),
		errorPause:   time.Second,
	}
}

// Scrape lists the group's posts and archives every post not already present. The archive is
// saved every saveInterval listing positions, after each failed post and once at the end.
func (s *Scraper) Scrape(ctx context.Context, group string, archive *Archive) (Summary, error) {
	logger.Info("fetching %d posts from %s", s.opts.Limit, group)
	posts, err := s.fetcher.TopPosts(ctx, group, s.opts)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Listed: len(posts)}
	for i, p := range posts {
		n := i + 1
		if archive.Has(p.Permalink) {
			logger.Debug("skipping already archived post %d/%d", n, len(posts))
			sum.Skipped++
			continue
		}
		if ctx.Err() != nil {
			break
		}

		logger.Debug("processing post %d/%d", n, len(posts))
		details, err := s.fetcher.PostDetails(ctx, p.Permalink)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			sum.Failed++
			logger.Warn("post %d failed: %v", n, err)
			if err := archive.Save(); err != nil {
				return sum, err
			}
			s.pause(ctx)
			continue
		}

		archive.Add(NewRecord(p, details))
		sum.Added++
		if n%s.saveInterval == 0 {
			if err := archive.Save(); err != nil {
				return sum, err
			}
			logger.Info("saved progress: %d posts", archive.Len())
		}
	}

	if err := archive.Save(); err != nil {
		return sum, err
	}
	sum.Total = archive.Len()
	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("scrape %s interrupted: %w", group, err)
	}
	logger.Info("saved %d posts to %s", sum.Total, archive.Path())
	return sum, nil
}

func (s *Scraper) pause(ctx context.Context) {
	if s.errorPause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.errorPause):
	}
}
