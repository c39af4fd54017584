package logger_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/dwops/batchgate/logger"
)

var _ = Describe("Logger", func() {
	log := logger.NewLogger("test-service", "debug", false)

	It("Should have `test-service` as service name", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("service=test-service"))
	})

	It("Should have info as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("level=info"))
	})

	It("Should have warn as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Warn("Testing")
		Expect(logOutput.String()).To(ContainSubstring("level=warn"))
	})

	It("Should have error as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Error("Testing")
		Expect(logOutput.String()).To(ContainSubstring("level=error"))
	})

	It("Should have `Testing` as msg", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("msg=Testing"))
	})

	It("Should carry extra fields", func() {
		logOutput := bytes.NewBufferString("")
		l2 := logger.NewLoggerWithFields("test-service", "debug", false, map[string]interface{}{"runDate": "20260825"})
		l2.SetOutput(logOutput)
		l2.Info("Testing")
		Expect(logOutput.String()).To(ContainSubstring("runDate=20260825"))
	})

	It("Should keep the output of separate loggers independent", func() {
		outA := bytes.NewBufferString("")
		outB := bytes.NewBufferString("")
		a := logger.NewLogger("batch-a", "info", false)
		b := logger.NewLogger("batch-b", "info", false)
		a.SetOutput(outA)
		b.SetOutput(outB)
		a.Info("line-from-batch-a")
		b.Info("line-from-batch-b")
		Expect(outA.String()).To(ContainSubstring("line-from-batch-a"))
		Expect(outA.String()).NotTo(ContainSubstring("line-from-batch-b"))
		Expect(outB.String()).To(ContainSubstring("line-from-batch-b"))
		Expect(outB.String()).NotTo(ContainSubstring("line-from-batch-a"))
	})

	It("Should tee each logger to its own file across concurrent batches", func() {
		dir, err := ioutil.TempDir("", "logger-tee")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(dir)
		pathA := filepath.Join(dir, "orchestration_20260824.log")
		pathB := filepath.Join(dir, "orchestration_20260825.log")
		a := logger.NewLogger("batch-a", "info", false)
		b := logger.NewLogger("batch-b", "info", false)
		fa, err := a.TeeToFile(pathA)
		Expect(err).NotTo(HaveOccurred())
		fb, err := b.TeeToFile(pathB)
		Expect(err).NotTo(HaveOccurred())
		a.Info("line-from-batch-a")
		b.Info("line-from-batch-b")
		// Batch a finishing must not detach batch b's tee.
		a.SetOutput(os.Stderr)
		Expect(fa.Close()).To(Succeed())
		b.Info("second-line-from-batch-b")
		Expect(fb.Close()).To(Succeed())
		fileA, err := ioutil.ReadFile(pathA)
		Expect(err).NotTo(HaveOccurred())
		fileB, err := ioutil.ReadFile(pathB)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(fileA)).To(ContainSubstring("line-from-batch-a"))
		Expect(string(fileA)).NotTo(ContainSubstring("line-from-batch-b"))
		Expect(string(fileB)).To(ContainSubstring("line-from-batch-b"))
		Expect(string(fileB)).To(ContainSubstring("second-line-from-batch-b"))
		Expect(string(fileB)).NotTo(ContainSubstring("line-from-batch-a"))
	})
})
