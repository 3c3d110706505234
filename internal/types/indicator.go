package types

// IndicatorType is the upper-case name an indicator is registered under.
type IndicatorType string

const (
	IndicatorTypeSMA    IndicatorType = "SMA"
	IndicatorTypeEMA    IndicatorType = "EMA"
	IndicatorTypeWMA    IndicatorType = "WMA"
	IndicatorTypeDEMA   IndicatorType = "DEMA"
	IndicatorTypeRSI    IndicatorType = "RSI"
	IndicatorTypeMOM    IndicatorType = "MOM"
	IndicatorTypeROC    IndicatorType = "ROC"
	IndicatorTypeSTDDEV IndicatorType = "STDDEV"
	IndicatorTypeMAX    IndicatorType = "MAX"
	IndicatorTypeMIN    IndicatorType = "MIN"
	IndicatorTypeWILLR  IndicatorType = "WILLR"
	IndicatorTypeCCI    IndicatorType = "CCI"
	IndicatorTypeATR    IndicatorType = "ATR"
	IndicatorTypeBBANDS IndicatorType = "BBANDS"
	IndicatorTypeMACD   IndicatorType = "MACD"
	IndicatorTypeOBV    IndicatorType = "OBV"
)
