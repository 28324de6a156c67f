package handler

import (
	"solarhub/internal/domain"
	"solarhub/internal/workflow"
)

// ApplicationView is an application with its lifecycle progress and the
// actions available at its status.
type ApplicationView struct {
	domain.Application
	Progress *workflow.Progress `json:"progress,omitempty"`
	Actions  workflow.Actions   `json:"actions"`
}

// ProjectView is a project with its phase progress.
type ProjectView struct {
	domain.Project
	Progress workflow.Progress `json:"progress"`
}

func newApplicationView(app domain.Application) (ApplicationView, error) {
	p, err := workflow.ApplicationFlow.ProgressOf(app.Status)
	if err != nil {
		return ApplicationView{}, err
	}
	return ApplicationView{Application: app, Progress: &p, Actions: workflow.ActionsFor(app.Status)}, nil
}

func newApplicationViews(apps []domain.Application) ([]ApplicationView, error) {
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		v, err := newApplicationView(apps[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// streamViews renders a list for live clients. A record whose status is
// outside the catalog is still delivered, without progress.
func streamViews(apps []domain.Application) interface{} {
	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		v := ApplicationView{Application: apps[i], Actions: workflow.ActionsFor(apps[i].Status)}
		if p, err := workflow.ApplicationFlow.ProgressOf(apps[i].Status); err == nil {
			v.Progress = &p
		}
		views = append(views, v)
	}
	return views
}

func newProjectView(p domain.Project) (ProjectView, error) {
	prog, err := workflow.ProjectFlow.ProgressOf(p.Phase)
	if err != nil {
		return ProjectView{}, err
	}
	return ProjectView{Project: p, Progress: prog}, nil
}

func newProjectViews(projects []domain.Project) ([]ProjectView, error) {
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		v, err := newProjectView(projects[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
