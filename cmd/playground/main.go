// Command playground runs ad-hoc queries against the configured todo store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"todo-api/internal/config"
	"todo-api/internal/domain"
	apphttp "todo-api/internal/http"
	"todo-api/internal/service"
	"todo-api/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	app := cli.NewApp()
	app.Name = "playground"
	app.Usage = "poke at the todo store without going through the API"
	app.Commands = commands(logger, os.Stdout)

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func commands(logger *logrus.Logger, out io.Writer) []cli.Command {
	return []cli.Command{
		{
			Name:  "list",
			Usage: "print every todo",
			Action: withTodos(logger, func(ctx context.Context, todos service.TodoService, c *cli.Context) error {
				list, err := todos.ListTodos(ctx)
				if err != nil {
					return err
				}
				return printTodos(out, list)
			}),
		},
		{
			Name:      "get",
			Usage:     "print a single todo",
			ArgsUsage: "<id>",
			Action: withTodos(logger, func(ctx context.Context, todos service.TodoService, c *cli.Context) error {
				todo, err := todos.GetTodo(ctx, c.Args().First())
				if err != nil {
					return lookupError(c.Args().First(), err)
				}
				return printJSON(out, apphttp.TodoToResponse(*todo))
			}),
		},
		{
			Name:      "remove",
			Aliases:   []string{"rm"},
			Usage:     "find a todo by id, remove it and print it",
			ArgsUsage: "<id>",
			Action: withTodos(logger, func(ctx context.Context, todos service.TodoService, c *cli.Context) error {
				todo, err := todos.RemoveTodo(ctx, c.Args().First())
				if err != nil {
					return lookupError(c.Args().First(), err)
				}
				return printJSON(out, apphttp.TodoToResponse(*todo))
			}),
		},
		{
			Name:  "clear",
			Usage: "remove every todo",
			Action: withTodos(logger, func(ctx context.Context, todos service.TodoService, c *cli.Context) error {
				n, err := todos.ClearTodos(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "removed %d todos\n", n)
				return err
			}),
		},
	}
}

type todoAction func(ctx context.Context, todos service.TodoService, c *cli.Context) error

func withTodos(logger *logrus.Logger, action todoAction) func(*cli.Context) error {
	return func(c *cli.Context) error {
		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		stores, err := storage.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stores.Close(ctx)

		return action(ctx, service.NewTodoService(stores.Todos), c)
	}
}

func lookupError(id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("todo %q not found", id)
	}
	return err
}

// printTodos writes todos in the same shape the API serves them.
func printTodos(out io.Writer, todos []domain.Todo) error {
	resp := make([]apphttp.TodoResponse, len(todos))
	for i := range todos {
		resp[i] = apphttp.TodoToResponse(todos[i])
	}
	return printJSON(out, resp)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
