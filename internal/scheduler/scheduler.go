package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/report"
	"github.com/TomMakinMPF/fifoinvestor/internal/scanner"
	"github.com/TomMakinMPF/fifoinvestor/internal/universe"
)

// Scheduler runs the monthly scan after each month close and writes the
// resulting report to the output directory.
type Scheduler struct {
	Cron       *cron.Cron
	Scanner    *scanner.Scanner
	TickersDir string
	Groups     []string
	OutputDir  string
	Ctx        context.Context
	Logger     zerolog.Logger
}

func New(ctx context.Context, sc *scanner.Scanner, tickersDir string, groups []string, outputDir string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Scanner:    sc,
		TickersDir: tickersDir,
		Groups:     groups,
		OutputDir:  outputDir,
		Ctx:        ctx,
		Logger:     logger,
	}
}

// Register adds the monthly scan job.
func (s *Scheduler) Register(monthlyCron string) error {
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyScan); err != nil {
		return fmt.Errorf("register monthly scan: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes the monthly scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.monthlyScan()
}

func (s *Scheduler) monthlyScan() {
	s.Logger.Info().Strs("groups", s.Groups).Msg("running monthly scan")

	var requests []scanner.Request
	for _, group := range s.Groups {
		tickers, err := universe.Load(s.TickersDir, group)
		if err != nil {
			s.Logger.Error().Err(err).Str("group", group).Msg("load ticker list")
			continue
		}
		for _, t := range tickers {
			requests = append(requests, scanner.Request{Symbol: t, Group: group})
		}
	}
	if len(requests) == 0 {
		s.Logger.Warn().Msg("no tickers to scan")
		return
	}

	result := s.Scanner.Scan(s.Ctx, requests)
	s.Logger.Info().
		Int("scanned", len(requests)).
		Int("rows", len(result.Rows)).
		Int("excluded", len(result.Excluded)).
		Msg("monthly scan finished")

	if err := s.writeReport(result); err != nil {
		s.Logger.Error().Err(err).Msg("write scan report")
	}
}

func (s *Scheduler) writeReport(result *scanner.Result) error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.OutputDir, report.Filename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, result.Rows); err != nil {
		return err
	}
	s.Logger.Info().Str("path", path).Int("rows", len(result.Rows)).Msg("scan report written")
	return nil
}
