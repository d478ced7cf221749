// Package route names the client's views.
package route

import "context"

// Route identifies a view.
type Route string

const (
	Login     Route = "/"
	Signup    Route = "/signup"
	Dashboard Route = "/dashboard"
)

// Navigator switches the active view.
type Navigator interface {
	Navigate(ctx context.Context, to Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Route)

func (f NavigatorFunc) Navigate(ctx context.Context, to Route) { f(ctx, to) }
