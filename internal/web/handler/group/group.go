// Package group provides the JSON API for groups: listing with balances and
// the create, add_user, delete, rename and leave operations.
package group

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/balance"
	"github.com/splitledger/splitledger/internal/config"
	groups "github.com/splitledger/splitledger/internal/group"
	"github.com/splitledger/splitledger/internal/web/handler"
)

const (
	// Path is the route of the group API.
	Path = handler.APIPath + "group"

	// QueryGroupID selects a single group on GET.
	QueryGroupID = "groupID"
	// QueryBrief omits the members of each group on GET.
	QueryBrief = "brief"

	// OpCreate creates a group.
	OpCreate = "create"
	// OpAddUser adds a user to a group.
	OpAddUser = "add_user"
	// OpDelete deletes a group.
	OpDelete = "delete"
	// OpRename renames a group.
	OpRename = "rename"
	// OpLeave removes the caller from a group.
	OpLeave = "leave"

	opList   = "list"
	opDetail = "detail"

	// ErrContentType is returned when a POST body is not declared as JSON.
	ErrContentType = "Request header must have Content-Type: application/json"
	// ErrMalformedJSON is returned when a POST body can not be decoded.
	ErrMalformedJSON = "Request body has malformed json"
	// ErrOperationMissing is returned when a POST body names no operation.
	ErrOperationMissing = "Operation not specified in request"
	// ErrMethodNotSupported is returned for methods other than GET and POST.
	ErrMethodNotSupported = "Request method not supported"
	// ErrInvalidGroupID is returned when the groupID parameter is not an unsigned integer.
	ErrInvalidGroupID = "Invalid URL parameter groupID"
	// ErrInvalidBrief is returned when the brief parameter is not a boolean.
	ErrInvalidBrief = "Invalid URL parameter brief"
)

var operations = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "group_operations_total",
		Help: "Number of group API requests, differentiated by operation and response status.",
	},
	[]string{"operation", "status"},
)

// Service serves the group API.
type Service struct {
	handler.Service
	cfg       *config.Config
	groups    *groups.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.groups = groups.NewService(db)
	s.validator = newValidator()

	app.Get(Path, auth.RequireSession(authService), s.Get)
	app.Post(Path, auth.RequireSession(authService), s.Post)
	app.All(Path, auth.RequireSession(authService), s.Unsupported)
}

// Get lists the groups of the caller or, with groupID, a single group.
func (s *Service) Get(c *fiber.Ctx) error {
	callerID, _ := auth.UserID(c)

	brief, err := parseBrief(c)
	if err != nil {
		return s.reply(c, opList, fiber.StatusBadRequest, messageResponse{Message: ErrInvalidBrief})
	}

	if !c.Context().QueryArgs().Has(QueryGroupID) {
		views, err := s.groups.ListGroups(callerID, brief)
		if err != nil {
			return s.fail(c, opList, err)
		}

		resp := listResponse{Message: groups.MsgSuccess, Groups: make([]groupResponse, 0, len(views))}
		for i := range views {
			resp.Groups = append(resp.Groups, toGroupResponse(&views[i], brief))
		}

		return s.reply(c, opList, fiber.StatusOK, resp)
	}

	groupID, err := strconv.ParseUint(c.Query(QueryGroupID), 10, 64)
	if err != nil {
		return s.reply(c, opDetail, fiber.StatusBadRequest, messageResponse{Message: ErrInvalidGroupID})
	}

	view, err := s.groups.GroupDetail(callerID, groupID, brief)
	if err != nil {
		return s.fail(c, opDetail, err)
	}

	return s.reply(c, opDetail, fiber.StatusOK, detailResponse{
		Message:       groups.MsgSuccess,
		groupResponse: toGroupResponse(view, brief),
	})
}

// Post dispatches the operation named in the JSON body.
func (s *Service) Post(c *fiber.Ctx) error {
	if !c.Is("json") {
		return s.reply(c, "", fiber.StatusBadRequest, messageResponse{Message: ErrContentType})
	}

	var env envelope
	if err := c.BodyParser(&env); err != nil {
		return s.reply(c, "", fiber.StatusBadRequest, messageResponse{Message: ErrMalformedJSON})
	}

	if env.Operation == nil || *env.Operation == "" {
		return s.reply(c, "", fiber.StatusBadRequest, messageResponse{Message: ErrOperationMissing})
	}

	callerID, _ := auth.UserID(c)
	op := *env.Operation

	switch op {
	case OpCreate:
		return s.create(c, callerID)
	case OpAddUser:
		return s.addUser(c, callerID)
	case OpDelete:
		return s.delete(c, callerID)
	case OpRename:
		return s.rename(c, callerID)
	case OpLeave:
		return s.leave(c, callerID)
	default:
		return s.reply(c, "unknown", fiber.StatusBadRequest,
			messageResponse{Message: "Operation " + op + " not recognized"})
	}
}

// Unsupported answers every method other than GET and POST.
func (s *Service) Unsupported(c *fiber.Ctx) error {
	return s.reply(c, "", fiber.StatusBadRequest, messageResponse{Message: ErrMethodNotSupported})
}

func (s *Service) create(c *fiber.Ctx, callerID uint64) error {
	var in createInput
	if ok, err := s.parse(c, OpCreate, &in); !ok {
		return err
	}

	groupID, err := s.groups.Create(callerID, in.GroupName, memberSpecs(in.Members))
	if err != nil {
		return s.fail(c, OpCreate, err)
	}

	return s.reply(c, OpCreate, fiber.StatusOK, createResponse{Message: groups.MsgSuccess, GroupID: groupID})
}

func (s *Service) addUser(c *fiber.Ctx, callerID uint64) error {
	var in addUserInput
	if ok, err := s.parse(c, OpAddUser, &in); !ok {
		return err
	}

	return s.done(c, OpAddUser, s.groups.AddUser(callerID, *in.GroupID, addUserSpec(&in)))
}

func (s *Service) delete(c *fiber.Ctx, callerID uint64) error {
	var in groupInput
	if ok, err := s.parse(c, OpDelete, &in); !ok {
		return err
	}

	return s.done(c, OpDelete, s.groups.Delete(callerID, *in.GroupID))
}

func (s *Service) rename(c *fiber.Ctx, callerID uint64) error {
	var in renameInput
	if ok, err := s.parse(c, OpRename, &in); !ok {
		return err
	}

	return s.done(c, OpRename, s.groups.Rename(callerID, *in.GroupID, in.GroupNewName))
}

func (s *Service) leave(c *fiber.Ctx, callerID uint64) error {
	var in groupInput
	if ok, err := s.parse(c, OpLeave, &in); !ok {
		return err
	}

	return s.done(c, OpLeave, s.groups.Leave(callerID, *in.GroupID))
}

// parse decodes and validates the body into in. When it returns false the
// response has already been written and the returned error must be passed on.
func (s *Service) parse(c *fiber.Ctx, op string, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, s.reply(c, op, fiber.StatusBadRequest, messageResponse{Message: ErrMalformedJSON})
	}

	if err := s.validator.Struct(in); err != nil {
		log.Debug().Err(err).Str("operation", op).Msg("validation failed for group operation")
		return false, s.reply(c, op, fiber.StatusBadRequest, messageResponse{Message: validationMessage(err)})
	}

	return true, nil
}

func (s *Service) done(c *fiber.Ctx, op string, err error) error {
	if err != nil {
		return s.fail(c, op, err)
	}

	return s.reply(c, op, fiber.StatusOK, messageResponse{Message: groups.MsgSuccess})
}

// fail maps a group service error to its status code and message.
func (s *Service) fail(c *fiber.Ctx, op string, err error) error {
	var (
		reqErr *groups.RequestError
		status = fiber.StatusInternalServerError
		msg    = groups.MsgInternal
	)

	if errors.As(err, &reqErr) {
		msg = reqErr.Message

		switch {
		case errors.Is(err, groups.ErrInvalidRequest):
			status = fiber.StatusBadRequest
		case errors.Is(err, groups.ErrNotMemberOrNotFound):
			status = fiber.StatusNotFound
		default:
			msg = groups.MsgInternal
		}
	} else {
		log.Error().Err(err).Str("operation", op).Msg("unexpected group service error")
	}

	return s.reply(c, op, status, messageResponse{Message: msg})
}

func (s *Service) reply(c *fiber.Ctx, op string, status int, body any) error {
	if op == "" {
		op = "none"
	}

	operations.WithLabelValues(op, strconv.Itoa(status)).Inc()

	return c.Status(status).JSON(body)
}

// parseBrief reads the brief parameter. A parameter without a value counts as true.
func parseBrief(c *fiber.Ctx) (bool, error) {
	args := c.Context().QueryArgs()
	if !args.Has(QueryBrief) {
		return false, nil
	}

	value := string(args.Peek(QueryBrief))
	if value == "" {
		return true, nil
	}

	return strconv.ParseBool(value)
}

func toGroupResponse(view *groups.View, brief bool) groupResponse {
	resp := groupResponse{
		GroupName: view.GroupName,
		GroupID:   view.GroupID,
		Debt:      debt(view.NetBalance),
	}

	if brief {
		return resp
	}

	members := make([]memberResponse, 0, len(view.Members))
	for _, m := range view.Members {
		members = append(members, toMemberResponse(m))
	}

	resp.Members = &members

	return resp
}

func toMemberResponse(m balance.MemberBalance) memberResponse {
	return memberResponse{
		Username: m.Username,
		UserID:   m.UserID,
		Debt:     debt(m.NetBalance),
	}
}

// debt converts a net balance (positive when owed) into the API debt (positive when owing).
func debt(netBalance int64) int64 {
	return -netBalance
}
