package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labindex/pkg/catalog"
	"github.com/matzehuels/labindex/pkg/errors"
	"github.com/matzehuels/labindex/pkg/integrations/github"
	"github.com/matzehuels/labindex/pkg/integrations/pages"
	"github.com/matzehuels/labindex/pkg/observability"
)

// Runner executes catalog builds.
//
// The Runner holds no per-run state; all inputs travel in [Options] and all
// outputs in [Result].
type Runner struct {
	Logger *log.Logger

	// Now returns the catalog timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Now: time.Now}
}

// Execute runs the complete list → probe → normalize → write pipeline.
// The output file is only written after every repository was processed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := r.Collect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Org, 0, time.Since(start), err)
		return nil, err
	}
	if err := catalog.Write(opts.Output, result.Catalog); err != nil {
		err = errors.Wrap(errors.ErrCodeWriteFailed, err, "write catalog")
		observability.Pipeline().OnBuildComplete(ctx, opts.Org, 0, time.Since(start), err)
		return nil, err
	}
	result.Path = opts.Output
	result.Stats.Duration = time.Since(start)

	observability.Pipeline().OnBuildComplete(ctx, opts.Org, result.Stats.Items, result.Stats.Duration, nil)
	return result, nil
}

// Collect runs every stage except the final write and returns the sorted
// catalog. Probe and fallback failures are recorded in the stats; only a
// listing failure or cancellation aborts the run.
func (r *Runner) Collect(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := &Result{}

	// Stage 1+2: List and filter
	repos, err := r.list(ctx, opts, &result.Stats)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Org, 0, time.Since(start), err)
		return nil, err
	}

	// Stage 3+4: Probe and normalize
	probeStart := time.Now()
	items, err := r.probeAll(ctx, opts, repos, &result.Stats)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Org, 0, time.Since(start), err)
		return nil, err
	}
	result.Stats.ProbeTime = time.Since(probeStart)

	opts.Logger.Info("probed sites",
		"repos", len(repos),
		"found", result.Stats.Found,
		"empty", result.Stats.Empty,
		"unavailable", result.Stats.Unavailable,
		"duration", result.Stats.ProbeTime)

	// Stage 5: Aggregate
	catalog.Sort(items)
	result.Duplicates = catalog.DuplicateIDs(items)
	for _, d := range result.Duplicates {
		opts.Logger.Warn("duplicate item id", "id", d.ID, "repos", d.Repos)
	}

	result.Catalog = catalog.NewCatalog(opts.Org, items, r.now())
	result.Stats.Items = result.Catalog.ItemCount
	result.Stats.Duplicates = len(result.Duplicates)
	result.Stats.Duration = time.Since(start)
	return result, nil
}

// ListRepos lists and filters the organization's repositories without
// probing any site.
func (r *Runner) ListRepos(ctx context.Context, opts Options) ([]github.Repo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForList(); err != nil {
		return nil, err
	}

	var stats Stats
	return r.list(ctx, opts, &stats)
}

func (r *Runner) list(ctx context.Context, opts Options, stats *Stats) ([]github.Repo, error) {
	listStart := time.Now()
	all, err := opts.contentClient().ListOrgRepos(ctx, opts.Org)
	stats.ListTime = time.Since(listStart)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeListingFailed, err, "list repositories of %s", opts.Org)
		observability.Pipeline().OnListComplete(ctx, opts.Org, 0, 0, stats.ListTime, err)
		return nil, err
	}

	repos := catalog.Filter(all,
		catalog.NewNameSet(opts.Allow...),
		catalog.NewNameSet(opts.Block...))

	stats.Listed = len(all)
	stats.Selected = len(repos)
	observability.Pipeline().OnListComplete(ctx, opts.Org, stats.Listed, stats.Selected, stats.ListTime, nil)

	opts.Logger.Info("listed repositories",
		"org", opts.Org,
		"listed", stats.Listed,
		"selected", stats.Selected,
		"duration", stats.ListTime)
	return repos, nil
}

func (r *Runner) probeAll(ctx context.Context, opts Options, repos []github.Repo, stats *Stats) ([]catalog.Item, error) {
	prober := opts.prober()
	var content *github.ContentClient
	if opts.Fallback {
		content = opts.contentClient()
	}

	items := []catalog.Item{}
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		probeStart := time.Now()
		res := prober.Probe(ctx, repo.Name)
		observability.Pipeline().OnProbe(ctx, repo.Name, res.Status.String(), time.Since(probeStart))

		switch res.Status {
		case pages.StatusFound:
			stats.Found++
			opts.Logger.Debug("found metadata", "repo", repo.Name, "url", res.URL, "items", len(res.Items))

			defaults := catalog.Defaults{SiteURL: prober.SiteURL(repo.Name), License: opts.License}
			for _, raw := range res.Items {
				items = append(items, catalog.Normalize(raw, repo, defaults))
			}
			continue
		case pages.StatusEmpty:
			stats.Empty++
		default:
			stats.Unavailable++
		}
		opts.Logger.Debug("no metadata", "repo", repo.Name, "status", res.Status)

		if content != nil {
			r.checkFallback(ctx, opts, content, repo, stats)
		}
	}
	// A cancel during the last probe surfaces as an unavailable site.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// checkFallback looks for the YAML metadata file. The outcome is reported
// but never produces items, and errors are ignored.
func (r *Runner) checkFallback(ctx context.Context, opts Options, content *github.ContentClient, repo github.Repo, stats *Stats) {
	if err := github.ValidateRepo(repo.Name); err != nil {
		opts.Logger.Debug("skipping fallback check", "repo", repo.Name, "error", err)
		return
	}
	found, err := content.FileExists(ctx, opts.Org, repo.Name, opts.FallbackPath, repo.DefaultBranch)
	if err != nil {
		opts.Logger.Debug("fallback check failed", "repo", repo.Name, "error", err)
		return
	}
	if found {
		stats.FallbackFound++
		opts.Logger.Debug("fallback metadata present, not parsed", "repo", repo.Name, "path", opts.FallbackPath)
	}
	observability.Pipeline().OnFallbackCheck(ctx, repo.Name, found)
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
