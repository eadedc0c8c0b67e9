package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/statementstore"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

// ActivitySource reports per-bank upload counts.
type ActivitySource interface {
	Activity(ctx context.Context, p *banks.Profile, since time.Time) (statementstore.Activity, error)
}

// EmailSender delivers the digest.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// UploadDigest summarises the last Window of uploads for every bank.
type UploadDigest struct {
	Banks  *banks.Registry
	Source ActivitySource
	Mailer EmailSender // nil only logs
	To     string
	Window time.Duration
	Now    func() time.Time
}

func StartCronJob(schedule string, digest *UploadDigest) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := digest.Run(context.Background()); err != nil {
			utils.Logger.Errorf("Cron job failed to send upload digest: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule upload digest job: %w", err)
	}

	c.Start()
	utils.Logger.Infof("Cron jobs started (upload digest %q)", schedule)
	return c, nil
}

// -------------------------------------------------------------
// Count each bank's recent uploads and mail the digest
// -------------------------------------------------------------
func (d *UploadDigest) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	until := now().UTC()
	window := d.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	since := until.Add(-window)

	profiles := d.Banks.All()
	rows := make([]utils.DigestRow, len(profiles))
	errs := make([]error, len(profiles))

	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p *banks.Profile) {
			defer wg.Done()
			a, err := d.Source.Activity(ctx, p, since)
			if err != nil {
				errs[i] = err
				return
			}
			rows[i] = utils.DigestRow{Bank: a.Bank, Uploaded: a.Uploaded, Pending: a.Pending}
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for _, r := range rows {
		utils.Logger.WithFields(logrus.Fields{
			"bank":     r.Bank,
			"uploaded": r.Uploaded,
			"pending":  r.Pending,
		}).Info("upload digest")
	}

	if d.Mailer == nil || d.To == "" {
		return nil
	}
	subject, body := utils.UploadDigestEmail(rows, since, until)
	if err := d.Mailer.SendEmail(d.To, subject, body); err != nil {
		return err
	}
	utils.Logger.Infof("Sent upload digest to %s", d.To)
	return nil
}
