package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/kazz187/goalboard/internal/client"
	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/goal"
)

var (
	app = kingpin.New("goalboard", "Goal board with dependency-gated lanes")

	serverURL = app.Flag("server", "Board server URL").Envar("GOALBOARD_SERVER").Default("http://localhost:3200").String()
	apiKey    = app.Flag("api-key", "API key of the board server").Envar("GOALBOARD_API_KEY").String()
	noColor   = app.Flag("no-color", "Disable colored output").Bool()

	// Board commands
	boardCmd = app.Command("board", "Show the board").Default()

	sortCmd = app.Command("sort", "Sort every lane")
	sortKey = sortCmd.Arg("key", "Sort key (priority, due_date)").Required().Enum(string(goal.SortKeyPriority), string(goal.SortKeyDueDate))

	renameCmd  = app.Command("rename", "Rename the board")
	renameName = renameCmd.Arg("name", "New board name").Required().String()

	watchCmd   = app.Command("watch", "Stream board changes")
	watchTypes = watchCmd.Flag("type", "Only show these event types").Strings()

	// Task commands
	showCmd = app.Command("show", "Show task details")
	showID  = showCmd.Arg("id", "Task ID").Required().String()

	addCmd         = app.Command("add", "Create a new task")
	addName        = addCmd.Arg("name", "Task name").Required().String()
	addDescription = addCmd.Flag("description", "Task description").Short('d').String()
	addDue         = addCmd.Flag("due", "Due date (YYYY-MM-DD)").Required().String()
	addPriority    = addCmd.Flag("priority", "Priority from 1 to 5, higher sorts first").Short('p').Default("3").Int()
	addDeps        = addCmd.Flag("dep", "ID of a task this task depends on").Strings()

	editCmd         = app.Command("edit", "Edit a task")
	editID          = editCmd.Arg("id", "Task ID").Required().String()
	editName        = editCmd.Flag("name", "Task name").IsSetByUser(&editNameSet).String()
	editDescription = editCmd.Flag("description", "Task description").Short('d').IsSetByUser(&editDescriptionSet).String()
	editDue         = editCmd.Flag("due", "Due date (YYYY-MM-DD)").IsSetByUser(&editDueSet).String()
	editPriority    = editCmd.Flag("priority", "Priority from 1 to 5, higher sorts first").Short('p').IsSetByUser(&editPrioritySet).Int()
	editDeps        = editCmd.Flag("dep", "Replace dependencies with these task IDs").IsSetByUser(&editDepsSet).Strings()
	editClearDeps   = editCmd.Flag("clear-deps", "Remove all dependencies").Bool()

	rmCmd = app.Command("rm", "Delete a task; its id is removed from every other task's dependencies")
	rmID  = rmCmd.Arg("id", "Task ID").Required().String()

	moveCmd    = app.Command("move", "Move a task to a lane")
	moveID     = moveCmd.Arg("id", "Task ID").Required().String()
	moveStatus = moveCmd.Arg("status", "Destination lane (todo, in_progress, completed)").Required().String()
	moveIndex  = moveCmd.Flag("index", "Position in the destination lane, -1 for the end").Default("-1").Int()

	candidatesCmd = app.Command("candidates", "List tasks a task may depend on")
	candidatesID  = candidatesCmd.Arg("id", "Task ID, omit for a new task").String()

	// Generation commands
	generateCmd         = app.Command("generate", "Replace the board with generated tasks")
	generateDescription = generateCmd.Arg("description", "Project description").Required().String()
	generateProject     = generateCmd.Flag("project", "Project name, also used as the board name").String()

	cancelGenerationCmd = app.Command("cancel-generation", "Cancel a running generation")
)

// Set by kingpin when the matching edit flag is given, so that an empty
// value can still clear a field.
var (
	editNameSet        bool
	editDescriptionSet bool
	editDueSet         bool
	editPrioritySet    bool
	editDepsSet        bool
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *noColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.NewBoardClient(nil, *serverURL, *apiKey)
	if err := run(ctx, c, command); err != nil {
		if ctx.Err() != nil {
			return
		}
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.BoardClient, command string) error {
	out := os.Stdout

	switch command {
	case boardCmd.FullCommand():
		board, err := c.GetBoard(ctx)
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case sortCmd.FullCommand():
		board, err := c.SortTasks(ctx, goal.SortKey(*sortKey))
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case renameCmd.FullCommand():
		board, err := c.RenameBoard(ctx, *renameName)
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case watchCmd.FullCommand():
		types := make([]eventbus.EventType, 0, len(*watchTypes))
		for _, t := range *watchTypes {
			types = append(types, eventbus.EventType(t))
		}
		return c.WatchBoard(ctx, types, func(e *goal.BoardEvent) error {
			renderEvent(out, e)
			return nil
		})

	case showCmd.FullCommand():
		detail, err := c.GetTask(ctx, *showID)
		if err != nil {
			return err
		}
		renderDetail(out, detail)

	case addCmd.FullCommand():
		due, err := goal.ParseDate(*addDue)
		if err != nil {
			return err
		}
		task, _, err := c.CreateTask(ctx, goal.Draft{
			Name:         *addName,
			Description:  *addDescription,
			DueDate:      due,
			Priority:     *addPriority,
			Dependencies: *addDeps,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, task.ID)

	case editCmd.FullCommand():
		patch, err := editPatch()
		if err != nil {
			return err
		}
		task, _, err := c.UpdateTask(ctx, *editID, patch)
		if err != nil {
			return err
		}
		detail, err := c.GetTask(ctx, task.ID)
		if err != nil {
			return err
		}
		renderDetail(out, detail)

	case rmCmd.FullCommand():
		board, err := c.DeleteTask(ctx, *rmID)
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case moveCmd.FullCommand():
		status, err := goal.ParseStatus(*moveStatus)
		if err != nil {
			return err
		}
		board, err := c.MoveTaskTo(ctx, *moveID, status, *moveIndex)
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case candidatesCmd.FullCommand():
		tasks, err := c.ListCandidates(ctx, *candidatesID)
		if err != nil {
			return err
		}
		renderTasks(out, tasks)

	case generateCmd.FullCommand():
		board, err := c.GenerateTasks(ctx, goal.GenerateRequest{
			ProjectName:        *generateProject,
			ProjectDescription: *generateDescription,
		})
		if err != nil {
			return err
		}
		renderBoard(out, board)

	case cancelGenerationCmd.FullCommand():
		canceled, err := c.CancelGeneration(ctx)
		if err != nil {
			return err
		}
		if canceled {
			fmt.Fprintln(out, "generation canceled")
		} else {
			fmt.Fprintln(out, "no generation running")
		}

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func editPatch() (goal.Patch, error) {
	var p goal.Patch
	if editNameSet {
		p.Name = editName
	}
	if editDescriptionSet {
		p.Description = editDescription
	}
	if editDueSet {
		due, err := goal.ParseDate(*editDue)
		if err != nil {
			return goal.Patch{}, err
		}
		p.DueDate = &due
	}
	if editPrioritySet {
		p.Priority = editPriority
	}
	switch {
	case *editClearDeps:
		deps := []string{}
		p.Dependencies = &deps
	case editDepsSet:
		p.Dependencies = editDeps
	}
	if p.IsEmpty() {
		return goal.Patch{}, fmt.Errorf("nothing to edit")
	}
	return p, nil
}
