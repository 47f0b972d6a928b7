package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// SaveDailyReport stores a daily report, replacing the user's earlier
// snapshot of the same day.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	doc, err := newDailyReportDocument(report)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_id": doc.UserID, "date": doc.Date}
	_, err = r.collection(dailyReportsCollection).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// FindDailyReports returns up to limit of the user's snapshots, newest first.
func (r *MongoDBRepository) FindDailyReports(ctx context.Context, userID string, limit int) ([]models.DailyReport, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection(dailyReportsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []dailyReportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}

	reports := make([]models.DailyReport, 0, len(docs))
	for _, d := range docs {
		m, err := d.model()
		if err != nil {
			return nil, err
		}
		reports = append(reports, m)
	}
	return reports, nil
}
