// Package health tracks backend availability over time.
//
// The Monitor keeps a bounded rolling history of boolean health samples
// per service and derives uptime ratios from it. The most recent sample
// per service answers "is this backend currently usable", and the
// AnyAvailable flag answers "is any backend worth calling at all".
//
// # Basic Usage
//
//	monitor := health.NewMonitor(health.Config{HistorySize: 100})
//	monitor.Sample("primary", true)
//	monitor.Sample("primary", false)
//
//	ratio := monitor.UptimeRatio("primary") // 0.5
//	current := monitor.Current()
//	if !current.AnyAvailable {
//	    // every tracked backend is down
//	}
//
// # Background Polling
//
// A Poller drives registered Checkers on a fixed cadence and feeds
// their outcomes into the Monitor:
//
//	poller := health.NewPoller(monitor, health.PollerConfig{
//	    Interval: 30 * time.Second,
//	})
//	poller.Register(health.NewCheckerFunc("primary", pingBackend))
//	if err := poller.Start(); err != nil {
//	    return err
//	}
//	defer poller.Stop()
//
// # HTTP Endpoints
//
// The package provides handlers for liveness probes and a JSON status
// view over the Monitor:
//
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/health", health.StatusHandler(monitor))
package health
