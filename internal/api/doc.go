// Package api contains the HTTP handlers, request and response models,
// and error mapping for the REST surface. Handlers delegate to the
// service layer and translate its errors to status codes; they hold no
// business rules of their own.
package api
