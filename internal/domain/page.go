package domain

// Page is one page of a server-side paginated list. Number is zero based.
type Page[T any] struct {
	Items         []T
	TotalElements int
	TotalPages    int
	Size          int
	Number        int
	First         bool
	Last          bool
}
