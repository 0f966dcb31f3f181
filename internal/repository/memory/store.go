// Package memory holds mutex-guarded in-memory implementations of the
// repository interfaces. They back the service tests, including the
// concurrency ones, without a database.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

// Store bundles all in-memory repositories over one shared lock, so the
// compare-and-set transitions are atomic the same way a database row
// update is.
type Store struct {
	mu sync.Mutex

	persons       map[uuid.UUID]model.Person
	hospitals     map[uuid.UUID]model.Hospital
	staff         map[uuid.UUID]model.HospitalStaff
	requests      map[uuid.UUID]model.BloodRequest
	donations     map[uuid.UUID]model.Donation
	bloodTests    map[uuid.UUID]model.BloodTest
	chatRooms     map[uuid.UUID]model.ChatRoom
	messages      map[uuid.UUID][]model.Message
	notifications map[uuid.UUID][]model.Notification
}

func NewStore() *Store {
	return &Store{
		persons:       make(map[uuid.UUID]model.Person),
		hospitals:     make(map[uuid.UUID]model.Hospital),
		staff:         make(map[uuid.UUID]model.HospitalStaff),
		requests:      make(map[uuid.UUID]model.BloodRequest),
		donations:     make(map[uuid.UUID]model.Donation),
		bloodTests:    make(map[uuid.UUID]model.BloodTest),
		chatRooms:     make(map[uuid.UUID]model.ChatRoom),
		messages:      make(map[uuid.UUID][]model.Message),
		notifications: make(map[uuid.UUID][]model.Notification),
	}
}

func (s *Store) Persons() repository.PersonRepository             { return &personRepo{s} }
func (s *Store) Hospitals() repository.HospitalRepository         { return &hospitalRepo{s} }
func (s *Store) BloodRequests() repository.BloodRequestRepository { return &requestRepo{s} }
func (s *Store) Donations() repository.DonationRepository         { return &donationRepo{s} }
func (s *Store) BloodTests() repository.BloodTestRepository       { return &bloodTestRepo{s} }
func (s *Store) ChatRooms() repository.ChatRoomRepository         { return &chatRoomRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }

func stamp(b *model.Base) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
}
