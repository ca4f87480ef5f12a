package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently with at most limit workers
// (limit <= 0 means one worker per task) and waits for all of them. Every
// task runs to completion even when siblings fail; the joined errors of
// all failed tasks are returned, each prefixed with the task name.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "prod-cluster", Func: assessProd},
//	    {Name: "staging-cluster", Func: assessStaging},
//	}
//	if err := RunParallel(ctx, tasks, 4); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}

	type result struct {
		name string
		err  error
	}

	sem := make(chan struct{}, limit)
	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			resultChan <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	errs := make([]error, 0, len(tasks))
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.name, res.err))
		}
	}

	return errors.Join(errs...)
}
