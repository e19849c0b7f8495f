package document_test

import (
	"context"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/claim-management/internal/document"
)

var _ = Describe("ValidateExtension", func() {
	It("should accept the allowed document types", func() {
		for _, name := range []string{"timesheet.pdf", "notes.doc", "report.docx"} {
			Expect(document.ValidateExtension(name)).To(Succeed())
		}
	})

	It("should be case-insensitive", func() {
		Expect(document.ValidateExtension("TIMESHEET.PDF")).To(Succeed())
		Expect(document.ValidateExtension("notes.DocX")).To(Succeed())
	})

	It("should reject anything off the allow-list", func() {
		for _, name := range []string{"payload.exe", "script.sh", "archive.zip", "noextension"} {
			Expect(document.ValidateExtension(name)).To(MatchError(document.ErrInvalidExtension))
		}
	})
})

var _ = Describe("LocalStore", func() {
	var (
		store *document.LocalStore
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		store, err = document.NewLocalStore(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("should store and retrieve a document round-trip", func() {
		storedName, err := store.Store(ctx, strings.NewReader("document body"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(storedName).To(HaveSuffix("_timesheet.pdf"))

		rc, err := store.Retrieve(ctx, storedName)
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()

		data, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("document body"))
	})

	It("should give colliding uploads distinct stored names", func() {
		first, err := store.Store(ctx, strings.NewReader("one"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())
		second, err := store.Store(ctx, strings.NewReader("two"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())

		Expect(first).NotTo(Equal(second))
	})

	It("should strip path components from the original name", func() {
		storedName, err := store.Store(ctx, strings.NewReader("body"), "../../etc/passwd.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(storedName).To(HaveSuffix("_passwd.pdf"))
		Expect(storedName).NotTo(ContainSubstring("/"))
	})

	It("should refuse disallowed extensions without writing anything", func() {
		_, err := store.Store(ctx, strings.NewReader("MZ"), "malware.exe")
		Expect(err).To(MatchError(document.ErrInvalidExtension))
	})

	It("should refuse stored names that escape the base directory", func() {
		_, err := store.Retrieve(ctx, "../outside.pdf")
		Expect(err).To(HaveOccurred())

		err = store.Delete(ctx, "../outside.pdf")
		Expect(err).To(HaveOccurred())
	})

	It("should report retrieval of a missing document", func() {
		_, err := store.Retrieve(ctx, "does-not-exist.pdf")
		Expect(err).To(HaveOccurred())
	})

	It("should delete a stored document and tolerate repeats", func() {
		storedName, err := store.Store(ctx, strings.NewReader("body"), "timesheet.pdf")
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Delete(ctx, storedName)).To(Succeed())
		Expect(store.Delete(ctx, storedName)).To(Succeed())

		_, err = store.Retrieve(ctx, storedName)
		Expect(err).To(HaveOccurred())
	})
})
