package main

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

func (s *MCPServer) handleInitialize(params json.RawMessage) (*InitializeResult, *Error) {
	var initParams InitializeParams
	if params != nil {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &Error{
				Code:    InvalidParams,
				Message: "Invalid initialize parameters",
				Data:    err.Error(),
			}
		}
	}

	if err := s.session.initialize(s.ctx); err != nil {
		return nil, &Error{Code: InternalError, Message: err.Error()}
	}
	s.logger.Info("client connected",
		"client", initParams.ClientInfo.Name,
		"client_version", initParams.ClientInfo.Version,
		"protocol_version", initParams.ProtocolVersion)

	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
			Prompts:   &PromptsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}, nil
}

func (s *MCPServer) handleListTools() (*ListToolsResult, *Error) {
	return &ListToolsResult{Tools: s.catalog.Tools}, nil
}

func (s *MCPServer) handleCallTool(params json.RawMessage) (*CallToolResult, *Error) {
	var callParams CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &Error{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    err.Error(),
		}
	}

	outcome, err := s.tools.Call(s.ctx, callParams.Name, callParams.Arguments)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}

	// Failures stay in the text; isError is left unset.
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: outcome.Text}},
	}, nil
}

func (s *MCPServer) handleListResources() (*ListResourcesResult, *Error) {
	return &ListResourcesResult{Resources: s.catalog.Resources}, nil
}

func (s *MCPServer) handleListResourceTemplates() (*ListResourceTemplatesResult, *Error) {
	return &ListResourceTemplatesResult{ResourceTemplates: s.catalog.ResourceTemplates}, nil
}

func (s *MCPServer) handleReadResource(params json.RawMessage) (*ReadResourceResult, *Error) {
	var readParams ReadResourceParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return nil, &Error{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    err.Error(),
		}
	}

	text, err := s.resources.Read(s.ctx, readParams.URI)
	if err != nil {
		return nil, rpcErrorFrom(err)
	}

	return &ReadResourceResult{
		Contents: []ResourceContent{
			{
				URI:      readParams.URI,
				MimeType: textMimeType,
				Text:     text,
			},
		},
	}, nil
}

func (s *MCPServer) handleListPrompts() (*ListPromptsResult, *Error) {
	return &ListPromptsResult{Prompts: []Prompt{}}, nil
}

func (s *MCPServer) handleGetPrompt(params json.RawMessage) (any, *Error) {
	var promptParams GetPromptParams
	if params != nil {
		if err := json.Unmarshal(params, &promptParams); err != nil {
			return nil, &Error{
				Code:    InvalidParams,
				Message: "Invalid parameters",
				Data:    err.Error(),
			}
		}
	}
	err := errors.Mark(errors.Newf("Unsupported get_prompt: %s", promptParams.Name), ErrUnsupportedPrompt)
	return nil, rpcErrorFrom(err)
}
