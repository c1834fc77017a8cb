package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/course --output domain/course --outpkg coursemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LayoutRepository --dir ../domain/course --output domain/course --outpkg coursemock --filename layout_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RunRepository --dir ../domain/syncrun --output domain/syncrun --outpkg syncrunmock --filename run_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LeaseRepository --dir ../domain/syncrun --output domain/syncrun --outpkg syncrunmock --filename lease_repository_mock.go
