package config

// Section bodies for the default dashboard. They are markdown and are
// rendered by each front end.
const (
	visualBody = `## Price chart

Closing prices for the selected ticker over the chosen period, drawn as a
line or as candles. Period and interval are picked in the toolbar.

| Period | Meaning      |
| ------ | ------------ |
| 1D     | 1 Day        |
| 1W     | 1 Week       |
| 1M     | 1 Month      |
| 1Y     | 1 Year       |
| 5Y     | 5 Years      |
| YTD    | Year to Date |
| MAX    | Max          |
`

	metricsBody = `## Key metrics

- **Current Price**
- **Market Cap**
- **Beta**
- **Volatility**
- **52W High** / **52W Low**
- **Dividend Yield**
- **Max Drawdown**
- **Buyer consensus**
`

	compareBody = `## Compare

Returns of the ticker set against the S&P 500 (^GSPC) over the same period,
with the risk-free rate as the baseline.
`

	summaryBody = `## Summary

Monte Carlo outlook for the final simulated price:

- expected value
- 5th and 95th percentile
- probability of closing above today
- probability of gaining more than 5%
`
)
