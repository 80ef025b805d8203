package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/models"
	"github.com/gradescan/gradescan-api/pkg/storage"
)

type fakeStudentRepo struct {
	student models.Student
	err     error
	created []models.Student
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	if f.err != nil {
		return models.Student{}, f.err
	}
	return f.student, nil
}

func (f *fakeStudentRepo) ListByExam(ctx context.Context, examID uint) ([]models.Student, error) {
	return []models.Student{f.student}, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = uint(len(f.created) + 1)
	f.created = append(f.created, *student)
	return nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 4096)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func minimalPDF() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func newTestSheetService(t *testing.T, students *fakeStudentRepo, maxSizeMB int) (SheetService, *fakeSheetRepo) {
	t.Helper()

	store, err := storage.NewLocal(t.TempDir(), testLogger())
	require.NoError(t, err)

	sheets := &fakeSheetRepo{}
	return NewSheetService(sheets, students, store, nil, maxSizeMB, testLogger()), sheets
}

func TestSheetServiceUpload(t *testing.T) {
	students := &fakeStudentRepo{student: models.Student{ID: 3, ExamID: 7, Name: "Ada"}}
	svc, sheets := newTestSheetService(t, students, 0)

	sheet, err := svc.Upload(context.Background(), 3, fileHeader(t, "answers.pdf", minimalPDF()))
	require.NoError(t, err)
	require.Equal(t, uint(3), sheet.StudentID)
	require.NotEmpty(t, sheet.Filename)

	require.Len(t, sheets.created, 1)
	require.Equal(t, uint(3), sheets.created[0].StudentID)
}

func TestSheetServiceUploadRejectsNonPDF(t *testing.T) {
	students := &fakeStudentRepo{student: models.Student{ID: 3}}
	svc, sheets := newTestSheetService(t, students, 0)

	_, err := svc.Upload(context.Background(), 3, fileHeader(t, "answers.txt", []byte("plain text, not a document")))
	require.ErrorIs(t, err, ErrUploadNotPDF)
	require.Empty(t, sheets.created)
}

func TestSheetServiceUploadRejectsOversizedFile(t *testing.T) {
	students := &fakeStudentRepo{student: models.Student{ID: 3}}
	svc, sheets := newTestSheetService(t, students, 1)

	oversized := append(minimalPDF(), bytes.Repeat([]byte("0"), 2*1024*1024)...)
	_, err := svc.Upload(context.Background(), 3, fileHeader(t, "answers.pdf", oversized))
	require.ErrorIs(t, err, ErrUploadTooLarge)
	require.Empty(t, sheets.created)
}

func TestSheetServiceUploadUnknownStudent(t *testing.T) {
	students := &fakeStudentRepo{err: gorm.ErrRecordNotFound}
	svc, sheets := newTestSheetService(t, students, 0)

	_, err := svc.Upload(context.Background(), 42, fileHeader(t, "answers.pdf", minimalPDF()))
	require.ErrorIs(t, err, ErrStudentNotFound)
	require.Empty(t, sheets.created)
}
