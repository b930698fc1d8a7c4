// Package runner drives the daily pipeline: collect prices, evaluate the
// breadth signal, decide, and trade. Strictly sequential; every external call
// is wrapped individually and failures end the run (or skip one stock) after
// being reported. Nothing is retried within a run.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"BreadthTrader/internal/broker"
	"BreadthTrader/internal/cache"
	"BreadthTrader/internal/collector"
	"BreadthTrader/internal/config"
	"BreadthTrader/internal/indicator"
	"BreadthTrader/internal/model"
	"BreadthTrader/internal/notifier"
	"BreadthTrader/internal/recorder"
	"BreadthTrader/internal/strategy"
)

// Runner wires the pipeline stages together for one run.
type Runner struct {
	Cfg       *config.Config
	Opts      config.Options
	Collector *collector.Collector
	Cache     *cache.Store
	Broker    broker.Broker
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Status    *collector.StatusChecker // nil unless market_status.enabled
	Logger    zerolog.Logger
	Now       func() time.Time
}

// New creates a Runner.
func New(cfg *config.Config, opts config.Options, col *collector.Collector, store *cache.Store,
	bk broker.Broker, nt notifier.Notifier, rec recorder.Recorder, logger zerolog.Logger) *Runner {
	r := &Runner{
		Cfg:       cfg,
		Opts:      opts,
		Collector: col,
		Cache:     store,
		Broker:    bk,
		Notifier:  nt,
		Recorder:  rec,
		Logger:    logger,
		Now:       time.Now,
	}
	col.Notify = r.trySend
	return r
}

// Run executes the whole pipeline once. It always returns a report and never
// propagates an error: failures are notified and recorded, and the caller is
// expected to exit 0 regardless.
func (r *Runner) Run(ctx context.Context) *model.RunReport {
	start := r.Now()
	report := &model.RunReport{}
	defer func() {
		report.Elapsed = r.Now().Sub(start)
		if !report.Skipped {
			r.record(report)
		}
	}()

	if wd := r.Now().Weekday(); wd == time.Saturday || wd == time.Sunday {
		r.trySend("今天是假日, 不執行")
		report.Skipped = true
		return report
	}

	r.trySend(fmt.Sprintf("參數: 不使用快取 %v, 禁用測試模式 %v, 購買股數 %d",
		!r.Opts.UseCache, !r.Opts.Simulate, r.Opts.TradeAmount))

	if r.Status != nil {
		closed, err := r.Status.IsClosed(ctx)
		if err != nil {
			// The status page is brittle; never let it stop the run.
			r.trySend(fmt.Sprintf("取得市場狀態失敗: %v", err))
		} else if !closed {
			r.trySend("尚未收盤, 不執行")
			report.Skipped = true
			return report
		}
	}

	ids, err := r.Collector.ListStockIDs(ctx)
	if err != nil {
		return r.abort(report, err, "取得股票代碼失敗")
	}
	r.trySend(fmt.Sprintf("找到 %d 支股票", len(ids)))
	r.trySend("開始取得所有股票的收盤價")

	series := model.PriceSeries{}
	if r.Opts.UseCache {
		series, err = r.Cache.Load()
		if err != nil {
			return r.abort(report, err, "讀取快取失敗")
		}
	}

	fresh, failed := r.Collector.CollectHistories(ctx, ids, series)
	series = cache.Merge(series, fresh)
	report.StockCount = len(series)
	report.FetchFailures = failed

	if r.Opts.UseCache {
		if err := r.Cache.Save(series); err != nil {
			return r.abort(report, err, "寫入快取失敗")
		}
	}
	r.trySend("成功取得所有股票的收盤價")

	sig, err := indicator.Evaluate(series, r.Cfg.Indicator.ShortWindow, r.Cfg.Indicator.LongWindow)
	if err != nil {
		return r.abort(report, err, "價格資料不足, 無法計算指標")
	}
	report.IndShort = sig.Short
	report.IndLong = sig.Long
	report.Holdable = sig.Holdable
	if sig.Holdable {
		r.trySend(fmt.Sprintf("%s, 可持有", r.Cfg.Symbol))
	} else {
		r.trySend(fmt.Sprintf("%s, 不可持有", r.Cfg.Symbol))
	}

	if err := r.Broker.Login(ctx); err != nil {
		return r.abort(report, err, "永豐金 API 登入失敗")
	}

	onHand, err := r.Broker.HasPosition(ctx, r.Cfg.Symbol)
	if err != nil {
		return r.abort(report, err, "取得持有狀態失敗")
	}
	report.OnHand = onHand

	intent, reason := strategy.Decide(sig.Holdable, onHand)
	report.Intent = intent
	r.trySend(reason)

	switch intent {
	case model.IntentBuy:
		r.executeBuy(ctx, report)
	case model.IntentSell:
		r.executeSell(ctx, report)
	}
	return report
}

// executeBuy buys at the current best ask, the price that fills against
// standing sell orders.
func (r *Runner) executeBuy(ctx context.Context, report *model.RunReport) {
	quote, err := r.Broker.Snapshot(ctx, r.Cfg.Symbol)
	if err != nil {
		r.fail(report, err, "取得委賣價失敗")
		return
	}
	price := quote.SellPrice
	report.OrderPrice, _ = price.Float64()
	report.OrderQty = r.Opts.TradeAmount

	if _, err := r.Broker.PlaceOrder(ctx, r.Cfg.Symbol, broker.ActionBuy, r.Opts.TradeAmount, price); err != nil {
		r.fail(report, err, "買進下單失敗")
		return
	}
	report.OrderPlaced = true
	r.trySend(fmt.Sprintf("買進下單成功, 買價 %s, 股數 %d", price, r.Opts.TradeAmount))
}

// executeSell sells at the current best bid.
func (r *Runner) executeSell(ctx context.Context, report *model.RunReport) {
	quote, err := r.Broker.Snapshot(ctx, r.Cfg.Symbol)
	if err != nil {
		r.fail(report, err, "取得委買價失敗")
		return
	}
	price := quote.BuyPrice
	report.OrderPrice, _ = price.Float64()
	report.OrderQty = r.Opts.TradeAmount

	if _, err := r.Broker.PlaceOrder(ctx, r.Cfg.Symbol, broker.ActionSell, r.Opts.TradeAmount, price); err != nil {
		r.fail(report, err, "賣出下單失敗")
		return
	}
	report.OrderPlaced = true
	r.trySend(fmt.Sprintf("賣出下單成功, 賣價 %s, 股數 %d", price, r.Opts.TradeAmount))
}

// abort reports a fatal phase failure and ends the run.
func (r *Runner) abort(report *model.RunReport, err error, msg string) *model.RunReport {
	r.fail(report, err, msg)
	return report
}

func (r *Runner) fail(report *model.RunReport, err error, msg string) {
	if report.Err == nil {
		report.Err = err
	}
	r.Logger.Error().Err(err).Msg(msg)
	r.trySend(fmt.Sprintf("%s: %v", msg, err))
}

func (r *Runner) record(report *model.RunReport) {
	note := ""
	if report.Err != nil {
		note = report.Err.Error()
	}
	rec := &recorder.RunRecord{
		StockCount:    report.StockCount,
		FetchFailures: report.FetchFailures,
		IndShort:      report.IndShort,
		IndLong:       report.IndLong,
		Holdable:      report.Holdable,
		OnHand:        report.OnHand,
		Intent:        report.Intent,
		OrderPrice:    report.OrderPrice,
		OrderQty:      report.OrderQty,
		OrderPlaced:   report.OrderPlaced,
		Note:          note,
		ElapsedMs:     report.Elapsed.Milliseconds(),
	}
	if err := r.Recorder.RecordRun(rec); err != nil {
		r.Logger.Error().Err(err).Msg("record run failed")
	}
}

// trySend pushes a notification, logging but never escalating a send failure.
func (r *Runner) trySend(text string) {
	if err := r.Notifier.Send(text); err != nil {
		r.Logger.Error().Err(err).Msg("send notification failed")
	}
}
