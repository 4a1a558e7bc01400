package eventmodels

type AssetClass string

const (
	AssetClassUSEquity AssetClass = "us_equity"
	AssetClassCrypto   AssetClass = "crypto"
)
