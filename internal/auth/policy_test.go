package auth

import (
	"github.com/campusworks/complaint-management/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Authorize", func() {
	faculty := &Identity{ID: 10, Role: RoleFaculty, Department: "CSE"}
	maintenance := &Identity{ID: 20, Role: RoleMaintenance, Department: "Electrical"}
	admin := &Identity{ID: 30, Role: RoleAdmin}
	superAdmin := &Identity{ID: 1, Role: RoleSuperAdmin}

	ginkgo.Describe("complaint reads", func() {
		ginkgo.It("scopes faculty to their own complaints", func() {
			scope, err := Authorize(faculty, OpListComplaints)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.ReportedBy).To(gomega.Equal(int64(10)))
			gomega.Expect(scope.AssignedTo).To(gomega.BeEmpty())
			gomega.Expect(scope.AdminFilters).To(gomega.BeFalse())
		})

		ginkgo.It("scopes maintenance to their department", func() {
			scope, err := Authorize(maintenance, OpReadComplaint)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.AssignedTo).To(gomega.Equal("Electrical"))
			gomega.Expect(scope.ReportedBy).To(gomega.BeZero())
		})

		ginkgo.It("gives administrators an unrestricted scope with filters", func() {
			for _, id := range []*Identity{admin, superAdmin} {
				scope, err := Authorize(id, OpListComplaints)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(scope.ReportedBy).To(gomega.BeZero())
				gomega.Expect(scope.AssignedTo).To(gomega.BeEmpty())
				gomega.Expect(scope.AdminFilters).To(gomega.BeTrue())
			}
		})

		ginkgo.It("denies a nil identity", func() {
			_, err := Authorize(nil, OpListComplaints)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("complaint creation", func() {
		ginkgo.It("allows faculty only", func() {
			_, err := Authorize(faculty, OpCreateComplaint)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			for _, id := range []*Identity{maintenance, admin, superAdmin} {
				_, err := Authorize(id, OpCreateComplaint)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("complaint updates", func() {
		ginkgo.It("allows maintenance scoped to their department", func() {
			scope, err := Authorize(maintenance, OpUpdateComplaint)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.AssignedTo).To(gomega.Equal("Electrical"))
		})

		ginkgo.It("denies everyone else, administrators included", func() {
			for _, id := range []*Identity{faculty, admin, superAdmin} {
				_, err := Authorize(id, OpUpdateComplaint)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("user management", func() {
		ginkgo.It("allows only the super admin", func() {
			_, err := Authorize(superAdmin, OpManageUsers)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			for _, id := range []*Identity{faculty, maintenance, admin} {
				_, err := Authorize(id, OpManageUsers)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("statistics", func() {
		ginkgo.It("allows admin and super admin", func() {
			for _, id := range []*Identity{admin, superAdmin} {
				_, err := Authorize(id, OpViewStats)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			}

			for _, id := range []*Identity{faculty, maintenance} {
				_, err := Authorize(id, OpViewStats)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			}
		})
	})

	ginkgo.Describe("Scope.AllowsRow", func() {
		ginkgo.It("restricts by reporter when set", func() {
			scope := Scope{ReportedBy: 10}
			gomega.Expect(scope.AllowsRow(10, "Electrical")).To(gomega.BeTrue())
			gomega.Expect(scope.AllowsRow(11, "Electrical")).To(gomega.BeFalse())
		})

		ginkgo.It("restricts by assigned department when set", func() {
			scope := Scope{AssignedTo: "Electrical"}
			gomega.Expect(scope.AllowsRow(99, "Electrical")).To(gomega.BeTrue())
			gomega.Expect(scope.AllowsRow(99, "Carpentry")).To(gomega.BeFalse())
		})

		ginkgo.It("allows everything when unrestricted", func() {
			scope := Scope{AdminFilters: true}
			gomega.Expect(scope.AllowsRow(99, "Carpentry")).To(gomega.BeTrue())
		})
	})
})
