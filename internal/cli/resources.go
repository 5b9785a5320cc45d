package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) ListResources(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	for _, r := range a.sess.State.Resources {
		printlnFn(fmt.Sprintf("%s  %-20s %s", r.ID, r.Name, r.URL))
	}
	return nil
}

func (a *App) AddResource(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "-Enter resource name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	url, err := GetSimpleText(a.reader, "-Enter URL", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	desc, err := GetSimpleText(a.reader, "-Enter description (optional)", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	r, err := a.svc.AddResource(ctx, a.sess, name, url, desc)
	if err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Printf("Added resource %s", r.Name)
	return nil
}

func (a *App) DeleteResource(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	id, err := GetSimpleText(a.reader, "-Enter resource id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.svc.DeleteResource(ctx, a.sess, id); err != nil {
		log.Printf("%v", err)
		return err
	}
	log.Println("Resource and its credentials deleted")
	return nil
}
