package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	"go.mongodb.org/mongo-driver/bson"
	backend "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionDayPlans      = "day_plans"
	CollectionReels         = "reels"
	CollectionSavedReels    = "saved_reels"
	CollectionNotifications = "notifications"
)

// Store implements ports.DocumentStore using MongoDB.
type Store struct {
	client *backend.Client
	db     *backend.Database
	now    func() time.Time
}

// Connect dials MongoDB and returns a store bound to dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := backend.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	store := NewFromDatabase(client.Database(dbName))
	store.client = client
	return store, nil
}

// NewFromDatabase creates a store from an existing database handle.
func NewFromDatabase(db *backend.Database) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// Close disconnects the client if the store owns it.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *Store) coll(name string) *backend.Collection {
	return s.db.Collection(name)
}

// mapErr translates driver sentinels into domain errors.
func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

// CreateUser inserts a user document.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.coll(CollectionUsers).InsertOne(ctx, user)
	return mapErr(err, "insert user")
}

// GetUser finds a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := s.coll(CollectionUsers).FindOne(ctx, bson.M{"id": userID}).Decode(&u)
	if err != nil {
		return nil, mapErr(err, "find user")
	}
	return &u, nil
}

// GetPreferences returns only the preferences of a user.
func (s *Store) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	var doc struct {
		Preferences domain.Preferences `bson:"preferences"`
	}
	opts := options.FindOne().SetProjection(bson.M{"preferences": 1})
	err := s.coll(CollectionUsers).FindOne(ctx, bson.M{"id": userID}, opts).Decode(&doc)
	if err != nil {
		return nil, mapErr(err, "find preferences")
	}
	if doc.Preferences == nil {
		return domain.Preferences{}, nil
	}
	return doc.Preferences, nil
}

// CreateDayPlan inserts a day plan document.
func (s *Store) CreateDayPlan(ctx context.Context, plan *domain.Itinerary) error {
	_, err := s.coll(CollectionDayPlans).InsertOne(ctx, plan)
	return mapErr(err, "insert day plan")
}

// GetItinerary finds a day plan by ID, filtered by owner.
func (s *Store) GetItinerary(ctx context.Context, itineraryID, userID string) (*domain.Itinerary, error) {
	var plan domain.Itinerary
	err := s.coll(CollectionDayPlans).FindOne(ctx, bson.M{"id": itineraryID, "user_id": userID}).Decode(&plan)
	if err != nil {
		return nil, mapErr(err, "find day plan")
	}
	return &plan, nil
}

// ListDayPlans returns the plans of a user ordered by date.
func (s *Store) ListDayPlans(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	return s.findPlans(ctx, bson.M{"user_id": userID}, 0)
}

// ListDayPlansByStatus returns the plans of a user with the given status.
func (s *Store) ListDayPlansByStatus(ctx context.Context, userID string, status domain.PlanStatus) ([]domain.Itinerary, error) {
	return s.findPlans(ctx, bson.M{"user_id": userID, "status": status}, 0)
}

// ListUpcomingTrips returns upcoming plans of any user dated within [from, to].
func (s *Store) ListUpcomingTrips(ctx context.Context, from, to time.Time, limit int) ([]domain.Itinerary, error) {
	filter := bson.M{
		"status": domain.PlanUpcoming,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	return s.findPlans(ctx, filter, limit)
}

func (s *Store) findPlans(ctx context.Context, filter bson.M, limit int) ([]domain.Itinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll(CollectionDayPlans).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err, "find day plans")
	}

	plans := []domain.Itinerary{}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, mapErr(err, "decode day plans")
	}
	return plans, nil
}

// UpdateDayPlanStatus sets the status of a plan and bumps updated_at.
func (s *Store) UpdateDayPlanStatus(ctx context.Context, planID string, status domain.PlanStatus) error {
	res, err := s.coll(CollectionDayPlans).UpdateOne(ctx,
		bson.M{"id": planID},
		bson.M{"$set": bson.M{"status": status, "updated_at": s.now().UTC()}},
	)
	if err != nil {
		return mapErr(err, "update day plan")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListReels filters reels by a case-insensitive location pattern and type.
func (s *Store) ListReels(ctx context.Context, location string, reelType domain.ReelType, limit int) ([]domain.Reel, error) {
	filter := bson.M{}
	if location != "" {
		filter["location"] = bson.M{"$regex": regexp.QuoteMeta(location), "$options": "i"}
	}
	if reelType != "" {
		filter["type"] = reelType
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	return s.findReels(ctx, filter, opts)
}

func (s *Store) findReels(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Reel, error) {
	cur, err := s.coll(CollectionReels).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err, "find reels")
	}

	reels := []domain.Reel{}
	if err := cur.All(ctx, &reels); err != nil {
		return nil, mapErr(err, "decode reels")
	}
	return reels, nil
}

// InsertReels adds reels to the feed.
func (s *Store) InsertReels(ctx context.Context, reels ...domain.Reel) error {
	if len(reels) == 0 {
		return nil
	}
	docs := make([]any, 0, len(reels))
	for _, r := range reels {
		docs = append(docs, r)
	}
	_, err := s.coll(CollectionReels).InsertMany(ctx, docs)
	return mapErr(err, "insert reels")
}

// CountReels returns the number of stored reels.
func (s *Store) CountReels(ctx context.Context) (int64, error) {
	n, err := s.coll(CollectionReels).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapErr(err, "count reels")
	}
	return n, nil
}

// UpvoteReel increments the upvote counter of a reel.
func (s *Store) UpvoteReel(ctx context.Context, reelID string) error {
	res, err := s.coll(CollectionReels).UpdateOne(ctx,
		bson.M{"id": reelID},
		bson.M{"$inc": bson.M{"upvotes": 1}},
	)
	if err != nil {
		return mapErr(err, "upvote reel")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveReel bookmarks a reel for a user once and bumps its save counter.
func (s *Store) SaveReel(ctx context.Context, saved *domain.SavedReel) (bool, error) {
	filter := bson.M{"user_id": saved.UserID, "reel_id": saved.ReelID}
	err := s.coll(CollectionSavedReels).FindOne(ctx, filter).Err()
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, backend.ErrNoDocuments):
		return false, mapErr(err, "find saved reel")
	}

	if _, err := s.coll(CollectionSavedReels).InsertOne(ctx, saved); err != nil {
		return false, mapErr(err, "insert saved reel")
	}

	_, err = s.coll(CollectionReels).UpdateOne(ctx,
		bson.M{"id": saved.ReelID},
		bson.M{"$inc": bson.M{"saves": 1}},
	)
	if err != nil {
		return true, mapErr(err, "count reel save")
	}
	return true, nil
}

// ListSavedReels returns the reels a user bookmarked.
func (s *Store) ListSavedReels(ctx context.Context, userID string) ([]domain.Reel, error) {
	cur, err := s.coll(CollectionSavedReels).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, mapErr(err, "find saved reels")
	}

	var saved []domain.SavedReel
	if err := cur.All(ctx, &saved); err != nil {
		return nil, mapErr(err, "decode saved reels")
	}
	if len(saved) == 0 {
		return []domain.Reel{}, nil
	}

	ids := make([]string, 0, len(saved))
	for _, sr := range saved {
		ids = append(ids, sr.ReelID)
	}
	return s.findReels(ctx, bson.M{"id": bson.M{"$in": ids}}, options.Find())
}

// InsertNotification stores a notification record.
func (s *Store) InsertNotification(ctx context.Context, n *domain.Notification) error {
	_, err := s.coll(CollectionNotifications).InsertOne(ctx, n)
	return mapErr(err, "insert notification")
}

// HasTripNotification reports whether a notice of kind exists for the trip.
func (s *Store) HasTripNotification(ctx context.Context, userID, tripID, kind string) (bool, error) {
	filter := bson.M{"user_id": userID, "data.trip_id": tripID, "data.type": kind}
	err := s.coll(CollectionNotifications).FindOne(ctx, filter).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, backend.ErrNoDocuments):
		return false, nil
	default:
		return false, mapErr(err, "find notification")
	}
}

// ListNotifications returns the newest notifications of a user first.
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll(CollectionNotifications).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mapErr(err, "find notifications")
	}

	list := []domain.Notification{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, mapErr(err, "decode notifications")
	}
	return list, nil
}
