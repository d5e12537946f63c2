// Package domain defines core data structures used throughout the portfolio tracker.
package domain

import "sort"

// Asset describes a tracked cryptocurrency.
type Asset struct {
	// ID CoinGecko asset identifier, e.g. "bitcoin".
	ID string
	// Name human-readable name, e.g. "Bitcoin".
	Name string
	// Symbol exchange ticker symbol, e.g. "BTC". Used to build venue
	// symbols such as BTCUSDT for Binance and Bybit price sources.
	Symbol string
}

var assetRegistry = map[string]Asset{
	"bitcoin":     {ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"},
	"ethereum":    {ID: "ethereum", Name: "Ethereum", Symbol: "ETH"},
	"cardano":     {ID: "cardano", Name: "Cardano", Symbol: "ADA"},
	"solana":      {ID: "solana", Name: "Solana", Symbol: "SOL"},
	"ripple":      {ID: "ripple", Name: "Ripple (XRP)", Symbol: "XRP"},
	"dogecoin":    {ID: "dogecoin", Name: "Dogecoin", Symbol: "DOGE"},
	"polkadot":    {ID: "polkadot", Name: "Polkadot", Symbol: "DOT"},
	"chainlink":   {ID: "chainlink", Name: "Chainlink", Symbol: "LINK"},
	"avalanche-2": {ID: "avalanche-2", Name: "Avalanche", Symbol: "AVAX"},
	"matic-network": {
		ID: "matic-network", Name: "Polygon (MATIC)", Symbol: "MATIC",
	},
	"litecoin":    {ID: "litecoin", Name: "Litecoin", Symbol: "LTC"},
	"uniswap":     {ID: "uniswap", Name: "Uniswap", Symbol: "UNI"},
	"stellar":     {ID: "stellar", Name: "Stellar", Symbol: "XLM"},
	"cosmos":      {ID: "cosmos", Name: "Cosmos", Symbol: "ATOM"},
	"tron":        {ID: "tron", Name: "Tron", Symbol: "TRX"},
	"near":        {ID: "near", Name: "Near Protocol", Symbol: "NEAR"},
	"algorand":    {ID: "algorand", Name: "Algorand", Symbol: "ALGO"},
	"vechain":     {ID: "vechain", Name: "VeChain", Symbol: "VET"},
	"fantom":      {ID: "fantom", Name: "Fantom", Symbol: "FTM"},
	"aave":        {ID: "aave", Name: "Aave", Symbol: "AAVE"},
	"tezos":       {ID: "tezos", Name: "Tezos", Symbol: "XTZ"},
	"the-sandbox": {ID: "the-sandbox", Name: "The Sandbox", Symbol: "SAND"},
}

// AssetByID looks up a supported asset by its identifier.
func AssetByID(id string) (Asset, bool) {
	a, ok := assetRegistry[id]
	return a, ok
}

// SupportedAssets returns all supported assets sorted by identifier.
func SupportedAssets() []Asset {
	assets := make([]Asset, 0, len(assetRegistry))
	for _, a := range assetRegistry {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets
}
