// Package service provides the application services: user registration
// and login, deck and card management with CSV import and export, the
// study flow built on the spaced-repetition scheduler, and quiz
// generation. Services own the transaction boundaries; stores do the
// row work.
package service
