package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-bars/pkg/marketdata/provider Provider,FetchObserver
//go:generate mockgen -destination=./mock_indicator_registry.go -package=mocks github.com/rxtech-lab/argo-bars/internal/indicator IndicatorRegistry
//go:generate mockgen -destination=./mock_table_writer.go -package=mocks github.com/rxtech-lab/argo-bars/pkg/marketdata/writer TableWriter
