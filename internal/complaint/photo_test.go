package complaint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

var _ = ginkgo.Describe("PhotoStore", func() {
	var (
		store *PhotoStore
		dir   string
	)

	ginkgo.BeforeEach(func() {
		dir = ginkgo.GinkgoT().TempDir()
		var err error
		store, err = NewPhotoStore(dir)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("stores a PNG and returns its relative URL path", func() {
		path, err := store.Save(bytes.NewReader(pngBytes), int64(len(pngBytes)))

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(path).To(gomega.HavePrefix("/uploads/complaints/"))
		gomega.Expect(path).To(gomega.HaveSuffix(".png"))

		onDisk := filepath.Join(dir, filepath.Base(path))
		gomega.Expect(onDisk).To(gomega.BeAnExistingFile())
	})

	ginkgo.It("sniffs the content type instead of trusting the client", func() {
		// Plain text dressed up as nothing in particular.
		_, err := store.Save(strings.NewReader("definitely not an image"), 23)
		gomega.Expect(err).To(gomega.HaveOccurred())

		entries, readErr := os.ReadDir(dir)
		gomega.Expect(readErr).ToNot(gomega.HaveOccurred())
		gomega.Expect(entries).To(gomega.BeEmpty())
	})

	ginkgo.It("rejects uploads over the size cap", func() {
		_, err := store.Save(bytes.NewReader(pngBytes), MaxPhotoSize+1)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("accepts JPEG and GIF signatures", func() {
		jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
		path, err := store.Save(bytes.NewReader(jpeg), int64(len(jpeg)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(path).To(gomega.HaveSuffix(".jpg"))

		gif := []byte("GIF89a\x00\x00")
		path, err = store.Save(bytes.NewReader(gif), int64(len(gif)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(path).To(gomega.HaveSuffix(".gif"))
	})

	ginkgo.It("removes a stored photo", func() {
		path, err := store.Save(bytes.NewReader(pngBytes), int64(len(pngBytes)))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(store.Remove(path)).To(gomega.Succeed())
		gomega.Expect(filepath.Join(dir, filepath.Base(path))).ToNot(gomega.BeAnExistingFile())
	})
})
