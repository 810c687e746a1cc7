package surface

import (
	"runtime"
	"sync"

	"github.com/airgrid/surface-backend-go/internal/interp"
	"github.com/airgrid/surface-backend-go/internal/models"
)

// Evaluator applies an interpolation method to every grid point, producing a
// prediction surface. Grid points are independent, so evaluation is spread
// over a bounded worker pool; output order always matches input order.
type Evaluator struct {
	estimator *interp.Estimator
	workers   int
}

// NewEvaluator creates an evaluator over the given estimator. workers <= 0
// means one worker per CPU.
func NewEvaluator(estimator *interp.Estimator, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{
		estimator: estimator,
		workers:   workers,
	}
}

// Evaluate estimates a value at each grid point. Points with no usable
// observations carry a nil value through to the output; the caller decides
// how to render them.
func (e *Evaluator) Evaluate(points []models.GridPoint, observations []models.Observation, method interp.Method, now int64) ([]models.PredictionPoint, error) {
	if _, err := interp.ParseMethod(string(method)); err != nil {
		return nil, err
	}

	out := make([]models.PredictionPoint, len(points))

	workers := e.workers
	if workers > len(points) {
		workers = len(points)
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				p := points[i]
				prediction := models.PredictionPoint{GridPoint: p}
				v, ok, _ := e.estimator.Estimate(method, p.Lat, p.Lon, observations, now)
				if ok {
					value := v
					prediction.Value = &value
				}
				out[i] = prediction
			}
		}()
	}

	for i := range points {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return out, nil
}
