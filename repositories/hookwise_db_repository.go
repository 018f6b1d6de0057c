package repositories

// HookwiseDbRepository groups the data access methods on the application database.
// Methods are spread over the *_repository.go files of this package.
type HookwiseDbRepository struct{}
