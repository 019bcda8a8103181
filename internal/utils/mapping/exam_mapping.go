package mapping

import (
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
)

// ToModelExam converts a domain Exam to its persistence model.
func ToModelExam(d domain.Exam) models.Exam {
	return models.Exam{
		ExamID:        d.ExamID,
		PatientName:   d.PatientName,
		ExamType:      d.ExamType,
		ExamDate:      d.ExamDate,
		Value:         d.Value,
		Paid:          d.Paid,
		PaymentTypeID: d.PaymentTypeID,
		PaymentNote:   d.PaymentNote,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExam converts a persistence model Exam to its domain form.
func ToDomainExam(m models.Exam) domain.Exam {
	return domain.Exam{
		ExamID:        m.ExamID,
		PatientName:   m.PatientName,
		ExamType:      m.ExamType,
		ExamDate:      m.ExamDate,
		Value:         m.Value,
		Paid:          m.Paid,
		PaymentTypeID: m.PaymentTypeID,
		PaymentNote:   m.PaymentNote,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExamSlice converts a slice of model exams to domain exams.
func ToDomainExamSlice(ms []models.Exam) []domain.Exam {
	exams := make([]domain.Exam, len(ms))
	for i, m := range ms {
		exams[i] = ToDomainExam(m)
	}
	return exams
}
