package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/finboard-backend/internal/model"
)

// DictionaryRepository reads the reference tables backing filter dropdowns.
type DictionaryRepository struct {
	pool *pgxpool.Pool
}

// NewDictionaryRepository creates a new DictionaryRepository.
func NewDictionaryRepository(pool *pgxpool.Pool) *DictionaryRepository {
	return &DictionaryRepository{pool: pool}
}

// ListCampuses returns all campuses ordered by id.
func (r *DictionaryRepository) ListCampuses(ctx context.Context) ([]model.Campus, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM campuses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campuses := []model.Campus{}
	for rows.Next() {
		var c model.Campus
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		campuses = append(campuses, c)
	}
	return campuses, rows.Err()
}

// ListCourseTypeCodes returns all course-type codes ordered by code.
func (r *DictionaryRepository) ListCourseTypeCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT code FROM course_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
