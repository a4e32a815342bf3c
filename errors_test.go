package revmark_test

import (
	"errors"
	"io/fs"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
)

var _ = Describe("Error", func() {
	Context("when creating errors", func() {
		It("should create a new error with correct fields", func() {
			err := revmark.NewError(10, 5, "test error message")
			Expect(err).ToNot(BeNil())
			Expect(err.Line).To(Equal(10))
			Expect(err.Column).To(Equal(5))
			Expect(err.Err).To(Equal("test error message"))
		})

		It("should handle zero values", func() {
			err := revmark.NewError(0, 0, "")
			Expect(err.Line).To(Equal(0))
			Expect(err.Column).To(Equal(0))
			Expect(err.Err).To(Equal(""))
		})
	})

	Context("when a file fails", func() {
		It("should match both the kind and the cause", func() {
			err := error(&revmark.FileError{File: "A.java", Kind: revmark.ErrIO, Err: fs.ErrNotExist})
			Expect(errors.Is(err, revmark.ErrIO)).To(BeTrue())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			Expect(errors.Is(err, revmark.ErrEngine)).To(BeFalse())
			Expect(err.Error()).To(Equal("A.java: io failure: file does not exist"))
		})
	})
})
