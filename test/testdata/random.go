// Package testdata provides randomized fixtures for integration tests.
package testdata

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Sentence(3)
}

func RandomDescription() string {
	return gofakeit.Paragraph(1, 2, 8, " ")
}

func RandomSlug() string {
	words := []string{
		strings.ToLower(gofakeit.Word()),
		strings.ToLower(gofakeit.Word()),
		gofakeit.DigitN(4),
	}
	return strings.Join(words, "-")
}

func RandomQuestionTitle() string {
	return gofakeit.Question()
}

func RandomEmail() string {
	return gofakeit.Email()
}
