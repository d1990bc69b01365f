// Package folio tracks ownership of tradeable assets over time from an append-only log of
// buy and sell transactions, and answers valuation queries against an external price source.
//
// The core functionalities include:
//   - Ledger: a [Portfolio] holds a chronological list of [Transaction] and reconstructs its
//     composition and cost basis as of any date. Portfolios come in two formats, an
//     inflexible read-only one accepting only buys, and a flexible one that can be extended.
//   - Valuation: the [Engine] prices a portfolio on a single date, strictly, or over a range of
//     days, omitting the days that cannot be priced.
//   - Performance: a [PerformanceReport] condenses a range of daily values into at most about
//     thirty buckets with a scale suitable for a fixed width bar chart.
//   - Recurring investments: a [Plan] describes a periodic weighted investment, and the [Runner]
//     generates the buy transactions that should have been executed up to a given day.
//   - Session: a [Session] owns the current portfolio and its plans and orchestrates validation
//     against the [PriceSource] symbol universe.
//
// This package serves as the foundational logic for the `folio` command-line tool.
package folio
