package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AnalyticsClient --dir ../usecase --output usecase --outpkg usecasemock --filename analytics_client_mock.go
