package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reelist/reelist-api/internal/domain/entity"
)

func TestMovieFilter_Matches(t *testing.T) {
	matrix := &entity.Movie{Name: "Matrix", Genre: "scifi"}
	reloaded := &entity.Movie{Name: "Matrix Reloaded", Genre: "scifi"}
	up := &entity.Movie{Name: "Up", Genre: "comedy"}

	tests := []struct {
		name   string
		filter MovieFilter
		movie  *entity.Movie
		want   bool
	}{
		{"empty filter matches everything", MovieFilter{}, up, true},
		{"name substring case-insensitive", MovieFilter{Name: "matrix"}, matrix, true},
		{"name substring mid-string", MovieFilter{Name: "reload"}, reloaded, true},
		{"name substring no match", MovieFilter{Name: "matrix"}, up, false},
		{"genre exact case-insensitive", MovieFilter{Genre: "SCIFI"}, matrix, true},
		{"genre is exact, not substring", MovieFilter{Genre: "sci"}, matrix, false},
		{"both must hold", MovieFilter{Name: "matrix", Genre: "scifi"}, reloaded, true},
		{"both: genre mismatch fails", MovieFilter{Name: "up", Genre: "scifi"}, up, false},
		{"both: name mismatch fails", MovieFilter{Name: "matrix", Genre: "comedy"}, up, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(tc.movie))
		})
	}
}

func TestMovieFilter_IsZero(t *testing.T) {
	assert.True(t, MovieFilter{}.IsZero())
	assert.False(t, MovieFilter{Name: "x"}.IsZero())
	assert.False(t, MovieFilter{Genre: "x"}.IsZero())
}
