package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"rodeo-drive-api/internal/model"
)

func (s *PG) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, name, email, phone, date, time)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING created_at`,
		a.ID, a.Name, a.Email, a.Phone, a.Date, a.Time,
	).Scan(&a.CreatedAt)
	return pgErr(err)
}

func (s *PG) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, date, time, created_at
		 FROM appointments
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *PG) AppointmentsSince(ctx context.Context, since time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, date, time, created_at
		 FROM appointments
		 WHERE created_at >= $1
		 ORDER BY created_at DESC`, since,
	)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Date, &a.Time, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
