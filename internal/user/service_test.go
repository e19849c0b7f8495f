package user_test

import (
	"fmt"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/claim-management/internal/user"
)

type mockUserRepository struct {
	users       map[int64]*user.User
	permissions map[int64][]string
	nextID      int64
	createError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:       make(map[int64]*user.User),
		permissions: make(map[int64][]string),
		nextID:      1,
	}
}

func (m *mockUserRepository) GetByID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepository) GetPermissions(userID int64) ([]string, error) {
	return m.permissions[userID], nil
}

func (m *mockUserRepository) List(limit, offset int) ([]*user.User, error) {
	var result []*user.User
	for _, u := range m.users {
		copied := *u
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockUserRepository) Create(u *user.User, permissions []string) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	stored := *u
	m.users[u.ID] = &stored
	m.permissions[u.ID] = permissions
	return nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	return fmt.Sprintf("hashed(%s)", password), nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, fakeHasher{}, logger)
	})

	Describe("Create", func() {
		It("should register a lecturer with the lecturer permission bundle", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "Ada@University.edu",
				Name:     "Ada Lovelace",
				Password: "s3cret-password",
				Role:     "lecturer",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Email).To(Equal("ada@university.edu"))
			Expect(created.IsActive).To(BeTrue())
			Expect(created.Permissions).To(ConsistOf("submit_claims", "view_own_claims"))
		})

		It("should grant coordinators the review bundle", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "coord@university.edu",
				Name:     "Grace Hopper",
				Password: "s3cret-password",
				Role:     "coordinator",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Permissions).To(ConsistOf("approve_claims", "reject_claims", "view_all_claims"))
		})

		It("should hash the password before storing it", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "ada@university.edu",
				Name:     "Ada Lovelace",
				Password: "s3cret-password",
				Role:     "lecturer",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.users[created.ID].PasswordHash).To(Equal("hashed(s3cret-password)"))
		})

		It("should refuse duplicate emails", func() {
			dto := user.CreateUserDTO{
				Email:    "ada@university.edu",
				Name:     "Ada Lovelace",
				Password: "s3cret-password",
				Role:     "lecturer",
			}
			_, err := service.Create(dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(dto)
			Expect(err).To(MatchError(user.ErrEmailTaken))
		})

		It("should refuse unknown roles", func() {
			_, err := service.Create(user.CreateUserDTO{
				Email:    "x@university.edu",
				Name:     "X",
				Password: "s3cret-password",
				Role:     "dean",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should refuse short passwords", func() {
			_, err := service.Create(user.CreateUserDTO{
				Email:    "x@university.edu",
				Name:     "X",
				Password: "short",
				Role:     "lecturer",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		var userID int64

		BeforeEach(func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "ada@university.edu",
				Name:     "Ada Lovelace",
				Password: "s3cret-password",
				Role:     "lecturer",
			})
			Expect(err).NotTo(HaveOccurred())
			userID = created.ID
		})

		It("should patch only the provided fields", func() {
			department := "Computer Science"

			updated, err := service.Update(userID, user.UpdateUserDTO{Department: &department})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Department).To(Equal("Computer Science"))
			Expect(updated.Name).To(Equal("Ada Lovelace"))
		})

		It("should report unknown users", func() {
			name := "Nobody"
			_, err := service.Update(99999, user.UpdateUserDTO{Name: &name})
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("Deactivate", func() {
		It("should flip the active flag", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "ada@university.edu",
				Name:     "Ada Lovelace",
				Password: "s3cret-password",
				Role:     "lecturer",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Deactivate(created.ID)).To(Succeed())

			stored, err := service.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsActive).To(BeFalse())
		})
	})
})
