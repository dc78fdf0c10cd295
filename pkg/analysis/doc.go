// Package analysis holds the plantation calculators: the export/national
// mix optimizer, EOQ inventory sizing, NPV/IRR/payback evaluation, the
// leverage/ROE sweep, production-cost allocation and the exchange-rate
// sensitivity sweep.
//
// Every calculator is a pure function of its input record. None of them log,
// keep state between calls or return errors; zero or negative denominators
// are handled with guarded division and yield zero (or an infeasible flag for
// the optimizer). A zero in a result is therefore not an error signal.
package analysis
