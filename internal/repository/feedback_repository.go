package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// FeedbackRepo stores guest reviews for hotels.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo returns a FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a feedback row and fills in its ID.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO feedback (hotel_id, user_id, comment, rating) VALUES (?, ?, ?, ?)",
		f.HotelID, f.UserID, f.Comment, f.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListByHotel returns all feedback left for a hotel, newest first.
func (r *FeedbackRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, hotel_id, user_id, comment, rating FROM feedback WHERE hotel_id = ? ORDER BY id DESC",
		hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Feedback{}
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.HotelID, &f.UserID, &f.Comment, &f.Rating); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AverageRatingByHotel returns the mean rating for every hotel that has
// feedback.  Hotels without feedback are simply absent from the map.
func (r *FeedbackRepo) AverageRatingByHotel(ctx context.Context) (map[uint64]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT hotel_id, AVG(rating) FROM feedback GROUP BY hotel_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[uint64]float64{}
	for rows.Next() {
		var hotelID uint64
		var avg sql.NullFloat64
		if err := rows.Scan(&hotelID, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			out[hotelID] = avg.Float64
		}
	}
	return out, rows.Err()
}
