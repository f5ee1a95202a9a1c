// Command matchbook demonstrates wiring the engine, dispatcher, and
// market-data tracker together. It is not a CLI or a network front
// end: it scripts a short sequence of orders and exits.
package main

import (
	"log"

	"go.uber.org/zap"

	"matchbook/src/config"
	"matchbook/src/dispatch"
	"matchbook/src/domain"
	"matchbook/src/engine"
	"matchbook/src/events"
	"matchbook/src/logging"
	"matchbook/src/marketdata"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("initializing the matching engine", zap.String("symbol", cfg.Symbol))

	bus := dispatch.New(logger)
	eng := engine.New(cfg.Symbol, bus, logger)

	dispatch.Subscribe(bus, func(e events.TradeExecutedEvent) {
		logger.Info("trade executed",
			zap.Uint64("aggressing_order_id", e.AggressingOrderID),
			zap.Uint64("resting_order_id", e.RestingOrderID),
			zap.Uint32("price", e.Price),
			zap.Uint32("quantity", e.Quantity),
		)
	})
	dispatch.Subscribe(bus, func(e events.OrderAcceptedEvent) {
		logger.Info("order accepted", zap.Uint64("order_id", e.OrderID), zap.Uint32("price", e.Price), zap.Uint32("quantity", e.Quantity))
	})
	dispatch.Subscribe(bus, func(e events.OrderCancelledEvent) {
		logger.Info("order cancelled", zap.Uint64("order_id", e.OrderID), zap.Uint32("quantity", e.Quantity))
	})
	tracker := marketdata.Attach(bus, cfg.Symbol)
	dispatch.Subscribe(bus, func(e events.MarketDataEvent) {
		logger.Info("market data", zap.String("symbol", e.Symbol), zap.Uint32("last_price", e.LastPrice))
	})

	if err := eng.Start(); err != nil {
		logger.Fatal("failed to start engine", zap.Error(err))
	}
	defer eng.Stop()

	sell, err := domain.NewLimitOrder(cfg.Symbol, domain.Sell, "150.50", 10, 2)
	if err != nil {
		logger.Fatal("failed to build order", zap.Error(err))
	}
	eng.Submit(sell)

	buy, err := domain.NewLimitOrder(cfg.Symbol, domain.Buy, "150.50", 10, 1)
	if err != nil {
		logger.Fatal("failed to build order", zap.Error(err))
	}
	eng.Submit(buy)

	// Stop blocks until the worker has drained both submissions above,
	// so the tracker below already reflects the trade.
	eng.Stop()

	logger.Info("last traded price", zap.Uint32("price", tracker.LastPrice()))
}
