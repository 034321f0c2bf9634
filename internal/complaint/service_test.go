package complaint

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campusworks/complaint-management/internal"
	"github.com/campusworks/complaint-management/internal/activity"
	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestComplaint(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Complaint Module Suite")
}

// Mock Repository for testing. Rows live in a slice so list filtering
// behaves like the real query.
type mockComplaintRepository struct {
	complaints  []*Complaint
	nextID      int64
	failCreate  error
	failGet     error
	failUpdate  error
	lastUpdate  *statusUpdate
	listFilters []ListFilter
}

type statusUpdate struct {
	id         int64
	status     string
	resolvedAt *time.Time
	notes      *string
}

func newMockComplaintRepository() *mockComplaintRepository {
	return &mockComplaintRepository{nextID: 1}
}

func (m *mockComplaintRepository) Create(c *Complaint) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	c.ID = m.nextID
	m.nextID++
	m.complaints = append(m.complaints, c)
	return nil
}

// GetByID mirrors the real repository contract: the not-found sentinel
// for a missing row, the raw error for anything else.
func (m *mockComplaintRepository) GetByID(id int64) (*Complaint, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	for _, c := range m.complaints {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, internal.ErrComplaintNotFound
}

func (m *mockComplaintRepository) List(filter ListFilter) ([]*Complaint, error) {
	m.listFilters = append(m.listFilters, filter)

	var out []*Complaint
	for _, c := range m.complaints {
		if filter.ReportedBy != 0 && c.ReportedBy != filter.ReportedBy {
			continue
		}
		if filter.AssignedTo != "" && c.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ReportedByDepartment != "" && c.ReportedByDepartment != filter.ReportedByDepartment {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockComplaintRepository) UpdateStatus(id int64, status string, resolvedAt *time.Time, notes *string) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	m.lastUpdate = &statusUpdate{id: id, status: status, resolvedAt: resolvedAt, notes: notes}
	for _, c := range m.complaints {
		if c.ID == id {
			c.Status = status
			if resolvedAt != nil {
				c.ResolvedAt = resolvedAt
			}
			if notes != nil {
				c.ResolutionNotes = notes
			}
			return nil
		}
	}
	return internal.ErrComplaintNotFound
}

type mockActivityReader struct {
	entries []*activity.EntryView
	err     error
}

func (m *mockActivityReader) QueryByComplaint(complaintID int64) ([]*activity.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = ginkgo.Describe("ComplaintService", func() {
	var (
		service  *Service
		mockRepo *mockComplaintRepository
		reader   *mockActivityReader

		alice       = &auth.Identity{ID: 10, Name: "Alice", Role: auth.RoleFaculty, Department: "CSE"}
		bob         = &auth.Identity{ID: 11, Name: "Bob", Role: auth.RoleFaculty, Department: "ECE"}
		electrician = &auth.Identity{ID: 20, Name: "Suresh", Role: auth.RoleMaintenance, Department: "Electrical"}
		plumber     = &auth.Identity{ID: 21, Name: "Ramesh", Role: auth.RoleMaintenance, Department: "Sanitary & Plumbing"}
		admin       = &auth.Identity{ID: 30, Name: "Admin", Role: auth.RoleAdmin}
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockComplaintRepository()
		reader = &mockActivityReader{}
		service = NewService(mockRepo, reader, events.NewEventBus(discardLogger()), discardLogger())
	})

	file := func(actor *auth.Identity, description, assignedTo string) *CreatedComplaintResponse {
		resp, err := service.CreateComplaint(CreateComplaintDTO{
			Description: description,
			AssignedTo:  assignedTo,
		}, actor)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return resp
	}

	ginkgo.Describe("CreateComplaint", func() {
		ginkgo.It("files a complaint with the reporter frozen onto the row", func() {
			resp := file(alice, "Tube light flickering in CSE block", "Electrical")

			gomega.Expect(resp.ID).To(gomega.Equal(int64(1)))
			stored, err := mockRepo.GetByID(resp.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.ReportedBy).To(gomega.Equal(int64(10)))
			gomega.Expect(stored.ReportedByName).To(gomega.Equal("Alice"))
			gomega.Expect(stored.ReportedByDepartment).To(gomega.Equal("CSE"))
			gomega.Expect(stored.Status).To(gomega.Equal(StatusNew))
			gomega.Expect(stored.ResolvedAt).To(gomega.BeNil())
		})

		ginkgo.It("derives the title from the description", func() {
			short := file(alice, "Broken chair", "Carpentry")
			gomega.Expect(short.Title).To(gomega.Equal("Broken chair"))

			long := file(alice, "The air conditioning unit in seminar hall 2 has been leaking water onto the floor", "Electrical")
			gomega.Expect(long.Title).To(gomega.Equal("The air conditioning unit in seminar hal..."))
		})

		ginkgo.It("rejects an empty description", func() {
			_, err := service.CreateComplaint(CreateComplaintDTO{AssignedTo: "Electrical"}, alice)
			gomega.Expect(err).To(gomega.HaveOccurred())
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("rejects an unknown maintenance department", func() {
			_, err := service.CreateComplaint(CreateComplaintDTO{
				Description: "Leaky tap",
				AssignedTo:  "Gardening",
			}, alice)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("denies non-faculty actors", func() {
			for _, actor := range []*auth.Identity{electrician, admin} {
				_, err := service.CreateComplaint(CreateComplaintDTO{
					Description: "Leaky tap",
					AssignedTo:  "Sanitary & Plumbing",
				}, actor)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("ListComplaints", func() {
		ginkgo.BeforeEach(func() {
			file(alice, "Projector not working", "Electrical")
			file(bob, "Water leakage near lab", "Sanitary & Plumbing")
			file(bob, "Socket sparking", "Electrical")
		})

		ginkgo.It("shows faculty only their own complaints", func() {
			list, err := service.ListComplaints(alice, "", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0].ReportedBy).To(gomega.Equal(alice.ID))
		})

		ginkgo.It("shows maintenance only their department's queue", func() {
			list, err := service.ListComplaints(electrician, "", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(2))
			for _, c := range list {
				gomega.Expect(c.AssignedTo).To(gomega.Equal("Electrical"))
			}
		})

		ginkgo.It("shows administrators everything", func() {
			list, err := service.ListComplaints(admin, "", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(3))
		})

		ginkgo.It("treats the All status filter as a no-op", func() {
			all, err := service.ListComplaints(admin, auth.StatusFilterAll, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(3))
			gomega.Expect(mockRepo.listFilters[len(mockRepo.listFilters)-1].Status).To(gomega.BeEmpty())
		})

		ginkgo.It("applies the status filter for any role", func() {
			notes := "rewired"
			gomega.Expect(service.UpdateComplaint(3, UpdateComplaintDTO{
				Status:          StatusResolved,
				ResolutionNotes: &notes,
			}, electrician)).To(gomega.Succeed())

			list, err := service.ListComplaints(electrician, StatusResolved, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0].ID).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("applies the reporting-department filter only for administrators", func() {
			list, err := service.ListComplaints(admin, "", "ECE")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(2))

			// Same filter from a maintenance caller is ignored.
			list, err = service.ListComplaints(electrician, "", "ECE")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(2))
			gomega.Expect(mockRepo.listFilters[len(mockRepo.listFilters)-1].ReportedByDepartment).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetComplaint", func() {
		ginkgo.BeforeEach(func() {
			file(alice, "Projector not working", "Electrical")
		})

		ginkgo.It("returns the complaint with its activity trail to the reporter", func() {
			reader.entries = []*activity.EntryView{
				{Entry: activity.Entry{ID: 1, Action: activity.ActionCreateComplaint}},
			}

			detail, err := service.GetComplaint(1, alice)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.ID).To(gomega.Equal(int64(1)))
			gomega.Expect(detail.Activities).To(gomega.HaveLen(1))
		})

		ginkgo.It("returns not-found for a nonexistent id", func() {
			_, err := service.GetComplaint(99, alice)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrComplaintNotFound))
		})

		ginkgo.It("surfaces a storage failure as an internal error, not not-found", func() {
			mockRepo.failGet = errors.New("connection refused")

			_, err := service.GetComplaint(1, alice)
			gomega.Expect(err).ToNot(gomega.MatchError(internal.ErrComplaintNotFound))
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})

		ginkgo.It("returns the same not-found for a row outside the caller's scope", func() {
			_, errOther := service.GetComplaint(1, bob)
			_, errMissing := service.GetComplaint(99, bob)
			gomega.Expect(errOther).To(gomega.MatchError(internal.ErrComplaintNotFound))
			gomega.Expect(errOther).To(gomega.Equal(errMissing))
		})

		ginkgo.It("hides other departments' complaints from maintenance", func() {
			_, err := service.GetComplaint(1, plumber)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrComplaintNotFound))
		})

		ginkgo.It("still returns the complaint when the activity trail cannot be loaded", func() {
			reader.err = errors.New("ledger unavailable")

			detail, err := service.GetComplaint(1, alice)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.Activities).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("UpdateComplaint", func() {
		ginkgo.BeforeEach(func() {
			file(alice, "Socket sparking in lab 3", "Electrical")
		})

		ginkgo.It("lets the assigned department move the status", func() {
			err := service.UpdateComplaint(1, UpdateComplaintDTO{Status: StatusInProgress}, electrician)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stored, _ := mockRepo.GetByID(1)
			gomega.Expect(stored.Status).To(gomega.Equal(StatusInProgress))
			gomega.Expect(stored.ResolvedAt).To(gomega.BeNil())
		})

		ginkgo.It("rejects another department with a forbidden error", func() {
			err := service.UpdateComplaint(1, UpdateComplaintDTO{Status: StatusInProgress}, plumber)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotAssigned))
		})

		ginkgo.It("rejects unknown status values", func() {
			err := service.UpdateComplaint(1, UpdateComplaintDTO{Status: "Closed"}, electrician)
			gomega.Expect(err).To(gomega.HaveOccurred())

			stored, _ := mockRepo.GetByID(1)
			gomega.Expect(stored.Status).To(gomega.Equal(StatusNew))
		})

		ginkgo.It("stamps resolved_at on a Resolved transition", func() {
			notes := "replaced the socket"
			err := service.UpdateComplaint(1, UpdateComplaintDTO{
				Status:          StatusResolved,
				ResolutionNotes: &notes,
			}, electrician)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stored, _ := mockRepo.GetByID(1)
			gomega.Expect(stored.Status).To(gomega.Equal(StatusResolved))
			gomega.Expect(stored.ResolvedAt).ToNot(gomega.BeNil())
			gomega.Expect(*stored.ResolutionNotes).To(gomega.Equal("replaced the socket"))
		})

		ginkgo.It("re-stamps resolved_at on a repeated Resolved transition and keeps the notes", func() {
			notes := "replaced the socket"
			gomega.Expect(service.UpdateComplaint(1, UpdateComplaintDTO{
				Status:          StatusResolved,
				ResolutionNotes: &notes,
			}, electrician)).To(gomega.Succeed())

			first := *mockRepo.GetByIDMust(1).ResolvedAt

			gomega.Expect(service.UpdateComplaint(1, UpdateComplaintDTO{
				Status: StatusResolved,
			}, electrician)).To(gomega.Succeed())

			stored := mockRepo.GetByIDMust(1)
			gomega.Expect(stored.ResolvedAt.Before(first)).To(gomega.BeFalse())
			gomega.Expect(*stored.ResolutionNotes).To(gomega.Equal("replaced the socket"))
		})

		ginkgo.It("keeps resolved_at when the complaint is reopened", func() {
			gomega.Expect(service.UpdateComplaint(1, UpdateComplaintDTO{
				Status: StatusResolved,
			}, electrician)).To(gomega.Succeed())

			gomega.Expect(service.UpdateComplaint(1, UpdateComplaintDTO{
				Status: StatusInProgress,
			}, electrician)).To(gomega.Succeed())

			stored := mockRepo.GetByIDMust(1)
			gomega.Expect(stored.Status).To(gomega.Equal(StatusInProgress))
			gomega.Expect(stored.ResolvedAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("returns not-found for a nonexistent complaint", func() {
			err := service.UpdateComplaint(99, UpdateComplaintDTO{Status: StatusInProgress}, electrician)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrComplaintNotFound))
		})

		ginkgo.It("surfaces a storage failure as an internal error, not not-found", func() {
			mockRepo.failGet = errors.New("connection refused")

			err := service.UpdateComplaint(1, UpdateComplaintDTO{Status: StatusInProgress}, electrician)
			gomega.Expect(err).ToNot(gomega.MatchError(internal.ErrComplaintNotFound))
			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})

		ginkgo.It("denies faculty and administrators", func() {
			for _, actor := range []*auth.Identity{alice, admin} {
				err := service.UpdateComplaint(1, UpdateComplaintDTO{Status: StatusInProgress}, actor)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("reporter and resolver isolation", func() {
		ginkgo.It("keeps two faculty members' complaints fully separate end to end", func() {
			aliceResp := file(alice, "Projector not working", "Electrical")
			bobResp := file(bob, "Water leakage near lab", "Sanitary & Plumbing")

			aliceList, err := service.ListComplaints(alice, "", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(aliceList).To(gomega.HaveLen(1))
			gomega.Expect(aliceList[0].ID).To(gomega.Equal(aliceResp.ID))

			_, err = service.GetComplaint(bobResp.ID, alice)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrComplaintNotFound))

			_, err = service.GetComplaint(aliceResp.ID, bob)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrComplaintNotFound))
		})
	})
})

func (m *mockComplaintRepository) GetByIDMust(id int64) *Complaint {
	c, err := m.GetByID(id)
	gomega.Expect(err).ToNot(gomega.HaveOccurred())
	return c
}
