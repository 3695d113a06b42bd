package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Tanmoy095/LogiSynapse/services/console-service/client"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/bagsplit"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/events"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/notify"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/rbac"
	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
	"github.com/Tanmoy095/LogiSynapse/shared/kafka"
	"github.com/Tanmoy095/LogiSynapse/shared/rabbitmq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrForbidden = errors.New("role may not split this bag")

type splitBagOptions struct {
	bagAWB    string
	packages  []string
	location  string
	destName  string
	destPhone string
	destLine  string
	destCity  string
	destState string
	destPin   string
}

func (a *app) splitBagCmd() *cobra.Command {
	var o splitBagOptions
	cmd := &cobra.Command{
		Use:   "split-bag",
		Short: "Move packages out of a bag into a newly numbered sub-bag",
		Long: `Fetches the bag and the signed-in profile, pre-fills the sub-bag form,
selects the given packages and submits it to the backend.

Example:
  console split-bag --bag BAG1 --packages P1,P3 --location "Mumbai Hub"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSplitBag(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.bagAWB, "bag", "", "AWB of the bag to split")
	f.StringSliceVar(&o.packages, "packages", nil, "Package AWBs to move into the sub-bag")
	f.StringVar(&o.location, "location", "", "Transfer location")
	f.StringVar(&o.destName, "dest-name", "", "Override the receiver name")
	f.StringVar(&o.destPhone, "dest-phone", "", "Override the receiver phone")
	f.StringVar(&o.destLine, "dest-address", "", "Override the receiver address line")
	f.StringVar(&o.destCity, "dest-city", "", "Override the receiver city")
	f.StringVar(&o.destState, "dest-state", "", "Override the receiver state")
	f.StringVar(&o.destPin, "dest-pincode", "", "Override the receiver pincode")
	_ = cmd.MarkFlagRequired("bag")
	return cmd
}

func (a *app) runSplitBag(ctx context.Context, out io.Writer, o splitBagOptions) error {
	api := client.NewConsoleClient(a.cfg.API_URL, a.cfg.API_TOKEN, a.cfg.API_TIMEOUT, a.log)

	//1. Who is asking, and for which bag
	profile, err := api.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	nav, err := a.navigator()
	if err != nil {
		return err
	}
	role := rbac.ParseRole(profile.Role)
	if !nav.CanAccess("/bags/"+o.bagAWB+"/sub-bag", role) {
		return fmt.Errorf("%w: %s", ErrForbidden, role)
	}
	bag, err := api.GetBag(ctx, o.bagAWB)
	if err != nil {
		return fmt.Errorf("failed to load bag %s: %w", o.bagAWB, err)
	}

	//2. Collaborators
	gen, closeStore, err := a.generator(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier := notify.Multi{notify.NewLogNotifier(a.log)}
	if a.cfg.RabbitMQEnabled() {
		rc, err := rabbitmq.NewClient(a.cfg.GetRabbitMQURL(), a.log)
		if err != nil {
			a.log.Warn("rabbitmq unavailable, notifications go to the log only", zap.Error(err))
		} else {
			defer rc.Close()
			notifier = append(notifier, notify.NewQueueNotifier(rc, a.cfg.NOTIFY_QUEUE, a.log))
		}
	}

	opts := bagsplit.Options{
		Notifier:     notifier,
		SuccessDelay: a.cfg.SUCCESS_DELAY,
		Logger:       a.log,
		Refetch: func(ctx context.Context) error {
			fresh, err := api.GetBag(ctx, o.bagAWB)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "bag %s now holds %d package(s)\n", fresh.AWBNo, len(fresh.PackageAWBNos))
			return nil
		},
	}
	if a.cfg.KafkaEnabled() {
		producer := kafka.NewKafkaProducer(a.cfg.KAFKA_BROKER, a.cfg.KAFKA_TOPIC, a.log)
		defer producer.Close()
		opts.Events = events.NewBagEvents(producer)
	}

	//3. Fill the form the way an operator would
	dialog := bagsplit.NewDialog(api, gen, opts)
	if err := dialog.Open(ctx, bag, profile); err != nil {
		return err
	}
	for _, awb := range o.packages {
		if _, err := dialog.TogglePackage(strings.TrimSpace(awb)); err != nil {
			return err
		}
	}
	if err := dialog.SetTransferLocation(o.location); err != nil {
		return err
	}
	if err := dialog.SetDestination(o.destination(dialog.Form().Destination)); err != nil {
		return err
	}

	//4. Submit
	res, err := dialog.Submit(ctx)
	var verr *bagsplit.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(out, "missing: %s\n", strings.Join(verr.Missing, ", "))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", res.Message)
	return nil
}

// destination applies the --dest-* overrides to the bag's receiver.
func (o splitBagOptions) destination(base contracts.Address) contracts.Address {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Name, o.destName)
	set(&base.Phone, o.destPhone)
	set(&base.AddressLine, o.destLine)
	set(&base.City, o.destCity)
	set(&base.State, o.destState)
	set(&base.Pincode, o.destPin)
	return base
}
