package goal

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/kazz187/goalboard/pkg/jsoncodec"
)

const BoardServiceName = "goalboard.v1.BoardService"

const (
	BoardServiceGetBoardProcedure         = "/goalboard.v1.BoardService/GetBoard"
	BoardServiceGetTaskProcedure          = "/goalboard.v1.BoardService/GetTask"
	BoardServiceListCandidatesProcedure   = "/goalboard.v1.BoardService/ListCandidates"
	BoardServiceCreateTaskProcedure       = "/goalboard.v1.BoardService/CreateTask"
	BoardServiceUpdateTaskProcedure       = "/goalboard.v1.BoardService/UpdateTask"
	BoardServiceDeleteTaskProcedure       = "/goalboard.v1.BoardService/DeleteTask"
	BoardServiceMoveTaskProcedure         = "/goalboard.v1.BoardService/MoveTask"
	BoardServiceSortTasksProcedure        = "/goalboard.v1.BoardService/SortTasks"
	BoardServiceGenerateTasksProcedure    = "/goalboard.v1.BoardService/GenerateTasks"
	BoardServiceCancelGenerationProcedure = "/goalboard.v1.BoardService/CancelGeneration"
	BoardServiceRenameBoardProcedure      = "/goalboard.v1.BoardService/RenameBoard"
	BoardServiceWatchBoardProcedure       = "/goalboard.v1.BoardService/WatchBoard"
)

type BoardServiceHandler interface {
	GetBoard(context.Context, *connect.Request[GetBoardRequest]) (*connect.Response[GetBoardResponse], error)
	GetTask(context.Context, *connect.Request[GetTaskRequest]) (*connect.Response[GetTaskResponse], error)
	ListCandidates(context.Context, *connect.Request[ListCandidatesRequest]) (*connect.Response[ListCandidatesResponse], error)
	CreateTask(context.Context, *connect.Request[CreateTaskRequest]) (*connect.Response[CreateTaskResponse], error)
	UpdateTask(context.Context, *connect.Request[UpdateTaskRequest]) (*connect.Response[UpdateTaskResponse], error)
	DeleteTask(context.Context, *connect.Request[DeleteTaskRequest]) (*connect.Response[DeleteTaskResponse], error)
	MoveTask(context.Context, *connect.Request[MoveTaskRequest]) (*connect.Response[MoveTaskResponse], error)
	SortTasks(context.Context, *connect.Request[SortTasksRequest]) (*connect.Response[SortTasksResponse], error)
	GenerateTasks(context.Context, *connect.Request[GenerateTasksRequest]) (*connect.Response[GenerateTasksResponse], error)
	CancelGeneration(context.Context, *connect.Request[CancelGenerationRequest]) (*connect.Response[CancelGenerationResponse], error)
	RenameBoard(context.Context, *connect.Request[RenameBoardRequest]) (*connect.Response[RenameBoardResponse], error)
	WatchBoard(context.Context, *connect.Request[WatchBoardRequest], *connect.ServerStream[BoardEvent]) error
}

// NewBoardServiceHandler builds an HTTP handler serving every BoardService
// procedure. It returns the path prefix to mount the handler on.
func NewBoardServiceHandler(svc BoardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsoncodec.Codec{})}, opts...)
	handlers := map[string]http.Handler{
		BoardServiceGetBoardProcedure:         connect.NewUnaryHandler(BoardServiceGetBoardProcedure, svc.GetBoard, opts...),
		BoardServiceGetTaskProcedure:          connect.NewUnaryHandler(BoardServiceGetTaskProcedure, svc.GetTask, opts...),
		BoardServiceListCandidatesProcedure:   connect.NewUnaryHandler(BoardServiceListCandidatesProcedure, svc.ListCandidates, opts...),
		BoardServiceCreateTaskProcedure:       connect.NewUnaryHandler(BoardServiceCreateTaskProcedure, svc.CreateTask, opts...),
		BoardServiceUpdateTaskProcedure:       connect.NewUnaryHandler(BoardServiceUpdateTaskProcedure, svc.UpdateTask, opts...),
		BoardServiceDeleteTaskProcedure:       connect.NewUnaryHandler(BoardServiceDeleteTaskProcedure, svc.DeleteTask, opts...),
		BoardServiceMoveTaskProcedure:         connect.NewUnaryHandler(BoardServiceMoveTaskProcedure, svc.MoveTask, opts...),
		BoardServiceSortTasksProcedure:        connect.NewUnaryHandler(BoardServiceSortTasksProcedure, svc.SortTasks, opts...),
		BoardServiceGenerateTasksProcedure:    connect.NewUnaryHandler(BoardServiceGenerateTasksProcedure, svc.GenerateTasks, opts...),
		BoardServiceCancelGenerationProcedure: connect.NewUnaryHandler(BoardServiceCancelGenerationProcedure, svc.CancelGeneration, opts...),
		BoardServiceRenameBoardProcedure:      connect.NewUnaryHandler(BoardServiceRenameBoardProcedure, svc.RenameBoard, opts...),
		BoardServiceWatchBoardProcedure:       connect.NewServerStreamHandler(BoardServiceWatchBoardProcedure, svc.WatchBoard, opts...),
	}
	return "/" + BoardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
