package entity

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
)

// Asset is one row of the portfolio table. Only Ticker is interpreted; the
// full row is kept in Attributes untouched.
type Asset struct {
	Ticker     string            `json:"ticker"`
	Attributes datatypes.JSONMap `json:"attributes,omitempty"`
}

// ErrMissingTicker is returned for a portfolio row without a ticker column.
var ErrMissingTicker = errors.New("portfolio row has no ticker column")

// NewAssetFromRow builds an Asset from a column-name to value mapping.
// A null ticker becomes an empty one; a missing column is an error.
func NewAssetFromRow(row map[string]interface{}) (Asset, error) {
	raw, ok := row["ticker"]
	if !ok {
		return Asset{}, ErrMissingTicker
	}
	asset := Asset{Attributes: datatypes.JSONMap(row)}
	switch v := raw.(type) {
	case string:
		asset.Ticker = v
	case []byte:
		asset.Ticker = string(v)
	case nil:
	default:
		asset.Ticker = fmt.Sprint(v)
	}
	return asset, nil
}

// NewAssetsFromRows converts every row, failing on the first row without a ticker.
func NewAssetsFromRows(rows []map[string]interface{}) ([]Asset, error) {
	assets := make([]Asset, 0, len(rows))
	for i, row := range rows {
		asset, err := NewAssetFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// Tickers returns the ticker of every asset, in order.
func Tickers(assets []Asset) []string {
	tickers := make([]string, 0, len(assets))
	for _, a := range assets {
		tickers = append(tickers, a.Ticker)
	}
	return tickers
}

// UniqueTickers returns the non-empty tickers of assets in first-seen order.
func UniqueTickers(assets []Asset) []string {
	seen := make(map[string]bool, len(assets))
	var tickers []string
	for _, a := range assets {
		if a.Ticker == "" || seen[a.Ticker] {
			continue
		}
		seen[a.Ticker] = true
		tickers = append(tickers, a.Ticker)
	}
	return tickers
}
