package positions

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/rs/zerolog"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/multierr"
)

const jobBatchSize = 1000

// MarketData is the provider the analysis loads its inputs from.
type MarketData interface {
	Spot(ctx context.Context, symbol string) (float64, error)
	RiskFreeRate(ctx context.Context) (float64, error)
	OptionChain(ctx context.Context, symbol string) ([]models.OptionContract, error)
}

// Progress receives one Increment per processed contract.
type Progress interface {
	Increment()
	Wait()
}

type ProgressFactory func(total int) Progress

type barProgress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func (b *barProgress) Increment() { b.bar.Increment() }
func (b *barProgress) Wait()      { b.p.Wait() }

// BarProgress renders a terminal progress bar on w.
func BarProgress(w io.Writer) ProgressFactory {
	return func(total int) Progress {
		p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(w))
		bar := p.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("Greeks"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
		return &barProgress{p: p, bar: bar}
	}
}

// Analysis is one run over an underlying's option chain.
type Analysis struct {
	Snapshot  models.MarketSnapshot
	Contracts []models.OptionContract

	workers  int
	progress ProgressFactory
	logger   zerolog.Logger
}

type Option func(*Analysis)

func WithWorkers(n int) Option {
	return func(a *Analysis) { a.workers = n }
}

func WithProgress(f ProgressFactory) Option {
	return func(a *Analysis) { a.progress = f }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Analysis) { a.logger = l }
}

// NewAnalysis loads spot, rate and chain for symbol from md.
func NewAnalysis(ctx context.Context, md MarketData, symbol string, opts ...Option) (*Analysis, error) {
	spot, err := md.Spot(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching spot for %s: %w", symbol, err)
	}
	rate, err := md.RiskFreeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching risk-free rate: %w", err)
	}
	snapshot, err := models.NewMarketSnapshot(symbol, spot, rate, time.Now())
	if err != nil {
		return nil, err
	}
	contracts, err := md.OptionChain(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching option chain for %s: %w", symbol, err)
	}
	return NewAnalysisFromData(snapshot, contracts, opts...), nil
}

func NewAnalysisFromData(snapshot models.MarketSnapshot, contracts []models.OptionContract, opts ...Option) *Analysis {
	a := &Analysis{
		Snapshot:  snapshot,
		Contracts: contracts,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers <= 0 {
		a.workers = workerCount()
	}
	return a
}

type job struct {
	index    int
	contract models.OptionContract
}

type jobResult struct {
	index  int
	record GreekRecord
	err    error
}

// CalculateGreeks prices every contract that passes the input filter. Records
// come back in chain order. A contract that fails in the core is left out and
// reported in the returned error; the others are still returned.
func (a *Analysis) CalculateGreeks() ([]GreekRecord, error) {
	var jobs []job
	for i, c := range a.Contracts {
		if reason := skipReason(a.Snapshot, c); reason != "" {
			a.logger.Debug().Str("contract", c.Symbol).Str("reason", reason).Msg("skipping contract")
			continue
		}
		jobs = append(jobs, job{index: i, contract: c})
	}

	var progress Progress
	if a.progress != nil && len(jobs) > 0 {
		progress = a.progress(len(jobs))
	}

	results := a.processJobs(jobs, progress)
	if progress != nil {
		progress.Wait()
	}

	slots := make([]*jobResult, len(a.Contracts))
	for i := range results {
		slots[results[i].index] = &results[i]
	}

	records := make([]GreekRecord, 0, len(jobs))
	var errs error
	for _, r := range slots {
		if r == nil {
			continue
		}
		if r.err != nil {
			c := a.Contracts[r.index]
			a.logger.Warn().Err(r.err).Str("contract", c.Symbol).Msg("greeks failed")
			errs = multierr.Append(errs, &ItemError{Index: r.index, Symbol: c.Symbol, Err: r.err})
			continue
		}
		records = append(records, r.record)
	}

	a.logger.Info().
		Int("contracts", len(a.Contracts)).
		Int("priced", len(records)).
		Int("failed", len(multierr.Errors(errs))).
		Msg("greeks calculated")
	return records, errs
}

func (a *Analysis) processJobs(jobs []job, progress Progress) []jobResult {
	var wg sync.WaitGroup
	jobChan := make(chan job, jobBatchSize)
	resultChan := make(chan jobResult, jobBatchSize)

	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go worker(a.Snapshot, jobChan, resultChan, &wg, progress)
	}

	go func() {
		for _, j := range jobs {
			jobChan <- j
		}
		close(jobChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]jobResult, 0, len(jobs))
	for r := range resultChan {
		results = append(results, r)
	}
	return results
}

func worker(snapshot models.MarketSnapshot, jobs <-chan job, results chan<- jobResult, wg *sync.WaitGroup, progress Progress) {
	defer wg.Done()
	for j := range jobs {
		record, err := GreeksForContract(snapshot, j.contract)
		results <- jobResult{index: j.index, record: record, err: err}
		if progress != nil {
			progress.Increment()
		}
	}
}

// GreeksForContract prices a single contract and builds its table row.
func GreeksForContract(snapshot models.MarketSnapshot, c models.OptionContract) (GreekRecord, error) {
	pricer, err := NewPricerForContract(snapshot, c)
	if err != nil {
		return GreekRecord{}, err
	}
	price, err := pricer.PriceFor(c.Type)
	if err != nil {
		return GreekRecord{}, err
	}
	set, err := NewGreeks(pricer).All(c.Type)
	if err != nil {
		return GreekRecord{}, err
	}
	return GreekRecord{
		Symbol:     c.Symbol,
		Type:       c.Type,
		Call:       c.Type == models.Call,
		Strike:     c.Strike,
		Expiration: c.Expiration,
		DTE:        c.YearsToExpiry,
		IV:         c.ImpliedVol,
		Price:      price,
		Greeks:     set,
	}, nil
}
