package jobs

import (
	"context"

	"github.com/adhocore/gronx/pkg/tasker"
	"github.com/hookwise/hookwise-backend/usecases"
	"github.com/hookwise/hookwise-backend/utils"
)

func errToReturnCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

func RunScheduler(ctx context.Context, usecases usecases.Usecases) {
	taskr := tasker.New(tasker.Option{
		Verbose: true,
		Tz:      "UTC",
	}).WithContext(ctx)

	notConcurrent := false
	taskr.Task("* * * * *", func(ctx context.Context) (int, error) {
		logger := utils.LoggerFromContext(ctx).With("job", "close_due_campaigns")
		ctx = utils.StoreLoggerInContext(ctx, logger)
		err := CloseDueCampaigns(ctx, usecases)
		return errToReturnCode(err), err
	}, notConcurrent)

	taskr.Run()
}
