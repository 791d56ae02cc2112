// Package firestoredb implements the domain repositories on Cloud Firestore,
// the platform's system of record.
package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/almaconnect/alumnet/core"
)

// Collection layout. Group messages live under groups/{id}/messages even
// though no group parent document is ever written: standing groups are
// derived, not provisioned.
const (
	colUsers         = "users"
	colAlumni        = "alumni"
	colInstitutions  = "institutions"
	colPersonalChats = "personalChats"
	colGroups        = "groups"
	colMessages      = "messages"
	colAnnouncements = "announcements"
	colDonations     = "donations"
	colJobs          = "jobs"
	colApplications  = "jobApplications"
	colReferrals     = "jobOpenings"
)

func Open(ctx context.Context, conf *core.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if conf.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Firestore.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Firestore.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening firestore client")
	}
	return client, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isCanceled(err error) bool {
	c := status.Code(err)
	return c == codes.Canceled || errors.Cause(err) == context.Canceled
}
