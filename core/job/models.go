package job

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/almaconnect/alumnet/core"
)

// Job is an institution-posted opening on the job portal.
type Job struct {
	ID               string    `json:"id" firestore:"-"`
	JobName          string    `json:"job_name" firestore:"jobName"`
	Company          string    `json:"company" firestore:"company"`
	Location         string    `json:"location" firestore:"location"`
	Description      string    `json:"description" firestore:"description"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
	ApplicationCount int       `json:"application_count" firestore:"-"`
}

// Application is an alumni's submission against a Job. FileURL is the
// already-uploaded resume location; upload mechanics live outside this core.
type Application struct {
	ID          string    `json:"id" firestore:"-"`
	JobID       string    `json:"job_id" firestore:"jobId"`
	JobName     string    `json:"job_name" firestore:"jobName"`
	ApplicantID string    `json:"applicant_id" firestore:"userId"`
	AlumniName  string    `json:"alumni_name" firestore:"alumniName"`
	AlumniEmail string    `json:"alumni_email" firestore:"alumniEmail"`
	FileURL     string    `json:"file_url" firestore:"fileUrl"`
	AppliedAt   time.Time `json:"applied_at" firestore:"appliedAt"`
}

// Referral is an alumni-to-alumni opening ("job opening" board).
type Referral struct {
	ID           string    `json:"id" firestore:"-"`
	Title        string    `json:"title" firestore:"title"`
	Company      string    `json:"company" firestore:"company"`
	Location     string    `json:"location" firestore:"location"`
	Description  string    `json:"description" firestore:"description"`
	ReferrerID   string    `json:"referrer_id" firestore:"postedById"`
	ReferrerName string    `json:"referrer_name" firestore:"postedBy"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

type NewJob struct {
	JobName     string `json:"job_name" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (nj *NewJob) Validate(validate *validator.Validate) error {
	nj.JobName = core.CleanString(nj.JobName)
	nj.Company = core.CleanString(nj.Company)
	nj.Location = core.CleanString(nj.Location)
	nj.Description = core.CleanString(nj.Description)
	return validate.Struct(nj)
}

type NewApplication struct {
	JobID       string `json:"job_id" validate:"required"`
	AlumniName  string `json:"alumni_name" validate:"required"`
	AlumniEmail string `json:"alumni_email" validate:"required,email"`
	FileURL     string `json:"file_url" validate:"required,url"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.AlumniName = core.CleanString(na.AlumniName)
	na.AlumniEmail = core.CleanString(na.AlumniEmail, true /* lower */)
	return validate.Struct(na)
}

type NewReferral struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (nr *NewReferral) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Company = core.CleanString(nr.Company)
	nr.Location = core.CleanString(nr.Location)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}
