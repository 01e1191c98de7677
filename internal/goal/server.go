package goal

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/pkg/cerr"
	"github.com/kazz187/goalboard/pkg/clog"
)

var _ BoardServiceHandler = (*Server)(nil)

type Server struct {
	board    *Board
	eventBus *eventbus.Bus
}

func NewServer(board *Board, eventBus *eventbus.Bus) *Server {
	return &Server{
		board:    board,
		eventBus: eventBus,
	}
}

func (s *Server) GetBoard(ctx context.Context, req *connect.Request[GetBoardRequest]) (*connect.Response[GetBoardResponse], error) {
	return connect.NewResponse(&GetBoardResponse{
		Board: s.board.Snapshot(),
	}), nil
}

func (s *Server) GetTask(ctx context.Context, req *connect.Request[GetTaskRequest]) (*connect.Response[GetTaskResponse], error) {
	clog.AddTaskID(ctx, req.Msg.ID)
	detail, err := s.board.Task(req.Msg.ID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetTaskResponse{
		Detail: detail,
	}), nil
}

func (s *Server) ListCandidates(ctx context.Context, req *connect.Request[ListCandidatesRequest]) (*connect.Response[ListCandidatesResponse], error) {
	clog.AddTaskID(ctx, req.Msg.ID)
	candidates, err := s.board.AvailableCandidates(req.Msg.ID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListCandidatesResponse{
		Candidates: candidates,
	}), nil
}

func (s *Server) CreateTask(ctx context.Context, req *connect.Request[CreateTaskRequest]) (*connect.Response[CreateTaskResponse], error) {
	t, board, err := s.board.CreateTask(ctx, req.Msg.Draft)
	if err != nil {
		return nil, err
	}
	clog.AddTaskID(ctx, t.ID)
	return connect.NewResponse(&CreateTaskResponse{
		Task:  t,
		Board: board,
	}), nil
}

func (s *Server) UpdateTask(ctx context.Context, req *connect.Request[UpdateTaskRequest]) (*connect.Response[UpdateTaskResponse], error) {
	clog.AddTaskID(ctx, req.Msg.ID)
	if req.Msg.Patch.IsEmpty() {
		return nil, cerr.NewError(cerr.InvalidArgument, "nothing to update", ErrValidation)
	}
	t, board, err := s.board.UpdateTask(ctx, req.Msg.ID, req.Msg.Patch)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&UpdateTaskResponse{
		Task:  t,
		Board: board,
	}), nil
}

func (s *Server) DeleteTask(ctx context.Context, req *connect.Request[DeleteTaskRequest]) (*connect.Response[DeleteTaskResponse], error) {
	clog.AddTaskID(ctx, req.Msg.ID)
	board, err := s.board.DeleteTask(ctx, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&DeleteTaskResponse{
		Board: board,
	}), nil
}

func (s *Server) MoveTask(ctx context.Context, req *connect.Request[MoveTaskRequest]) (*connect.Response[MoveTaskResponse], error) {
	clog.AddTaskID(ctx, req.Msg.TaskID)
	board, err := s.board.MoveTask(ctx, req.Msg.MoveRequest)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MoveTaskResponse{
		Board: board,
	}), nil
}

func (s *Server) SortTasks(ctx context.Context, req *connect.Request[SortTasksRequest]) (*connect.Response[SortTasksResponse], error) {
	board, err := s.board.SortTasks(ctx, req.Msg.Key)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&SortTasksResponse{
		Board: board,
	}), nil
}

func (s *Server) GenerateTasks(ctx context.Context, req *connect.Request[GenerateTasksRequest]) (*connect.Response[GenerateTasksResponse], error) {
	board, err := s.board.GenerateFromDescription(ctx, req.Msg.GenerateRequest)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GenerateTasksResponse{
		Board: board,
	}), nil
}

func (s *Server) CancelGeneration(ctx context.Context, req *connect.Request[CancelGenerationRequest]) (*connect.Response[CancelGenerationResponse], error) {
	return connect.NewResponse(&CancelGenerationResponse{
		Canceled: s.board.CancelGeneration(ctx),
	}), nil
}

func (s *Server) RenameBoard(ctx context.Context, req *connect.Request[RenameBoardRequest]) (*connect.Response[RenameBoardResponse], error) {
	board, err := s.board.Rename(ctx, req.Msg.Name)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RenameBoardResponse{
		Board: board,
	}), nil
}

func (s *Server) WatchBoard(ctx context.Context, req *connect.Request[WatchBoardRequest], stream *connect.ServerStream[BoardEvent]) error {
	subID, ch := s.eventBus.Subscribe(64, req.Msg.Types...)
	defer s.eventBus.Unsubscribe(subID)

	if err := stream.Send(&BoardEvent{Board: s.board.Snapshot()}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(&BoardEvent{Event: event, Board: s.board.Snapshot()}); err != nil {
				return err
			}
		}
	}
}

// RegisterRoutes mounts the read-only JSON routes. Responses and errors are
// written by the cerr chi middleware.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/board", s.handleGetBoard)
	r.Get("/tasks/{id}", s.handleGetTask)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), s.board.Snapshot())
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clog.AddTaskID(r.Context(), id)
	detail, err := s.board.Task(id)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), detail)
}
